package vision

import (
	"fmt"

	"github.com/gowvp/clipov/internal/core/model"
)

// SegmentInput 视频片段分析参数
type SegmentInput struct {
	VideoPath           string
	Start               float64  // 默认 0
	End                 *float64 // 默认 min(Start+5, 时长)
	Frames              int      // 默认 5
	ConfidenceThreshold float64  // 默认 0.5，范围 [0,1]
	Categories          []string // 为空使用 DefaultFrameCategories
}

// DetectInput 单图检测参数
type DetectInput struct {
	Image               []byte
	ConfidenceThreshold float64 // 默认 0.5，范围 [0,1]
}

// SceneInput 单图场景分析参数
type SceneInput struct {
	Image      []byte
	Categories []string // 为空使用 DefaultImageCategories
}

// ObjectAnnotation 单图检测结果
type ObjectAnnotation struct {
	Name        string      `json:"name"`
	Confidence  float64     `json:"confidence"`
	BoundingBox BoundingBox `json:"boundingBox"`
}

// BoundingBox 对外输出的归一化边界框
type BoundingBox = model.BoundingBox

// PersonAttributes 人物属性，当前模型不提供
type PersonAttributes struct {
	Clothing string `json:"clothing"`
	Pose     string `json:"pose"`
}

// PersonAnnotation 单图人物检测结果
type PersonAnnotation struct {
	Confidence  float64          `json:"confidence"`
	BoundingBox BoundingBox      `json:"boundingBox"`
	Attributes  PersonAttributes `json:"attributes"`
}

// DetectObjectsOutput 单图物体检测输出
type DetectObjectsOutput struct {
	ObjectAnnotations []ObjectAnnotation `json:"objectAnnotations"`
	TotalObjects      int                `json:"totalObjects"`
}

// DetectPeopleOutput 单图人物检测输出
type DetectPeopleOutput struct {
	PersonDetectionAnnotations []PersonAnnotation `json:"personDetectionAnnotations"`
	TotalPeople                int                `json:"totalPeople"`
}

// LabelAnnotation 单图场景标签
type LabelAnnotation struct {
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
	Category    string  `json:"category"`
}

// AnalyzeSceneOutput 单图场景分析输出
type AnalyzeSceneOutput struct {
	LabelAnnotations []LabelAnnotation `json:"labelAnnotations"`
	TotalLabels      int               `json:"totalLabels"`
	DominantScene    *LabelAnnotation  `json:"dominantScene"`
}

func validThreshold(v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%w: confidence_threshold must be within [0,1], got %v", ErrInvalidArgument, v)
	}
	return nil
}
