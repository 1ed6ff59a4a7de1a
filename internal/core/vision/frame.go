package vision

import (
	"context"
	"fmt"

	"github.com/gowvp/clipov/internal/core/model"
)

// Outcome 一次允许失败的推理结果，失败时不贡献任何记录
type Outcome[T any] struct {
	Records []T
	Err     error
}

// Contribution 参与汇总的记录
func (o Outcome[T]) Contribution() []T {
	if o.Err != nil {
		return nil
	}
	return o.Records
}

// FrameResult 单帧推理结果
type FrameResult struct {
	Timestamp  float64
	Detections []DetectionRecord
	Scenes     Outcome[SceneLabelRecord]
}

// DetectFrame 检测单帧中的物体，边界框保持归一化坐标
func DetectFrame(ctx context.Context, det model.Detector, image []byte, threshold, ts float64) ([]DetectionRecord, error) {
	items, err := det.Detect(ctx, image, threshold)
	if err != nil {
		return nil, fmt.Errorf("%w: object detection: %w", ErrInferenceFailure, err)
	}
	out := make([]DetectionRecord, 0, len(items))
	for _, v := range items {
		out = append(out, DetectionRecord{
			Name:        v.ClassName,
			Confidence:  v.Confidence,
			BoundingBox: v.Box,
			Timestamp:   ts,
		})
	}
	return out, nil
}

// ScoreScenes 对类别做图文相似度打分，仅保留严格超过 floor 的标签，顺序与 categories 一致
func ScoreScenes(ctx context.Context, sc model.Scorer, image []byte, categories []string, floor, ts float64) ([]SceneLabelRecord, error) {
	if len(categories) == 0 {
		return []SceneLabelRecord{}, nil
	}
	scores, err := sc.Score(ctx, image, Prompts(categories))
	if err != nil {
		return nil, fmt.Errorf("%w: scene scoring: %w", ErrInferenceFailure, err)
	}
	if len(scores) != len(categories) {
		return nil, fmt.Errorf("%w: scene scoring returned %d scores for %d categories", ErrInferenceFailure, len(scores), len(categories))
	}
	out := make([]SceneLabelRecord, 0, len(categories))
	for i, c := range categories {
		if !AboveFloor(scores[i], floor) {
			continue
		}
		out = append(out, SceneLabelRecord{Description: c, Confidence: scores[i], Timestamp: ts})
	}
	return out, nil
}

// AnalyzeFrame 对单帧执行检测与场景分析
// 检测失败会中断整个请求；场景分析失败只记录在 Scenes 中，该帧不贡献场景标签
func AnalyzeFrame(ctx context.Context, det model.Detector, sc model.Scorer, f Frame, threshold float64, categories []string) (FrameResult, error) {
	detections, err := DetectFrame(ctx, det, f.Image, threshold, f.Timestamp)
	if err != nil {
		return FrameResult{}, err
	}
	scenes, err := ScoreScenes(ctx, sc, f.Image, categories, SceneFrameFloor, f.Timestamp)
	return FrameResult{
		Timestamp:  f.Timestamp,
		Detections: detections,
		Scenes:     Outcome[SceneLabelRecord]{Records: scenes, Err: err},
	}, nil
}
