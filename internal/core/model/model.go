package model

import "context"

// BoundingBox 归一化边界框，坐标范围 [0,1]
type BoundingBox struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Detection 检测模型返回的单个实例
type Detection struct {
	ClassName  string
	Confidence float64
	Box        BoundingBox
}

// Segment 转写分段，时间单位秒
type Segment struct {
	Text  string
	Start float64
	End   float64
}

// Transcription 转写结果
type Transcription struct {
	Text     string
	Language string
	Duration float64
	Segments []Segment
}

// Detector 目标检测能力，confidence 为置信度阈值 [0,1]
type Detector interface {
	Detect(ctx context.Context, image []byte, confidence float64) ([]Detection, error)
}

// Scorer 图文相似度能力，返回与 prompts 一一对应、经 softmax 归一化的分数
type Scorer interface {
	Score(ctx context.Context, image []byte, prompts []string) ([]float64, error)
}

// Transcriber 语音转写能力，language 为空时自动识别
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename, language string) (*Transcription, error)
}

// Prober 后端就绪探测
type Prober interface {
	Ready(ctx context.Context) error
}
