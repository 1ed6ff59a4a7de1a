package vision

import "github.com/gowvp/clipov/internal/core/model"

// DetectionRecord 单帧中的一个检测实例
type DetectionRecord struct {
	Name        string            `json:"name"`
	Confidence  float64           `json:"confidence"`
	BoundingBox model.BoundingBox `json:"boundingBox"`
	Timestamp   float64           `json:"timestamp"`
}

// SceneLabelRecord 单帧的一个场景标签
type SceneLabelRecord struct {
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
	Timestamp   float64 `json:"timestamp"`
}

// Key implements [Keyed].
func (d DetectionRecord) Key() string { return d.Name }

// Score implements [Keyed].
func (d DetectionRecord) Score() float64 { return d.Confidence }

// At implements [Keyed].
func (d DetectionRecord) At() float64 { return d.Timestamp }

// Key implements [Keyed].
func (s SceneLabelRecord) Key() string { return s.Description }

// Score implements [Keyed].
func (s SceneLabelRecord) Score() float64 { return s.Confidence }

// At implements [Keyed].
func (s SceneLabelRecord) At() float64 { return s.Timestamp }

// AggregatedRecord 同一 key 跨帧汇总后的记录
type AggregatedRecord struct {
	Key            string
	MeanConfidence float64
	Occurrences    int
	FirstSeen      float64
	LastSeen       float64
}

// ActivityRecord 由规则表推断出的活动
type ActivityRecord struct {
	Description string   `json:"description"`
	Confidence  float64  `json:"confidence"`
	Evidence    []string `json:"evidence"`
}

// ObjectSummary 视频片段中的物体汇总
type ObjectSummary struct {
	Name        string  `json:"name"`
	Confidence  float64 `json:"confidence"`
	Occurrences int     `json:"occurrences"`
	FirstSeen   float64 `json:"firstSeen"`
	LastSeen    float64 `json:"lastSeen"`
}

// SceneSummary 视频片段中的场景汇总
type SceneSummary struct {
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
	Category    string  `json:"category"`
	Occurrences int     `json:"occurrences"`
	FirstSeen   float64 `json:"firstSeen"`
	LastSeen    float64 `json:"lastSeen"`
}

// TimeRange 分析的时间窗口，单位秒
type TimeRange struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// SegmentSummary 视频片段统计
type SegmentSummary struct {
	TotalObjects        int       `json:"totalObjects"`
	TotalPeople         int       `json:"totalPeople"`
	FramesAnalyzed      int       `json:"framesAnalyzed"`
	TimeRange           TimeRange `json:"timeRange"`
	ConfidenceThreshold float64   `json:"confidence_threshold"`
}

// SegmentAnalysis 视频片段分析结果
type SegmentAnalysis struct {
	Objects    []ObjectSummary  `json:"objects"`
	People     []ObjectSummary  `json:"people"`
	Activities []ActivityRecord `json:"activities"`
	Scenes     []SceneSummary   `json:"scenes"`
	Summary    SegmentSummary   `json:"summary"`
}
