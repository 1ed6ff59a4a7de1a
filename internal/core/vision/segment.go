package vision

import (
	"context"
	"fmt"
	"time"
)

// AnalyzeSegment 视频片段分析：采样 → 逐帧推理 → 跨帧汇总 → 活动推断 → 组装
// 帧之间顺序执行
func (c Core) AnalyzeSegment(ctx context.Context, in SegmentInput) (*SegmentAnalysis, error) {
	if err := validThreshold(in.ConfidenceThreshold); err != nil {
		return nil, err
	}
	if in.Frames <= 0 {
		return nil, fmt.Errorf("%w: extract_frames must be positive, got %d", ErrInvalidArgument, in.Frames)
	}
	if in.Start < 0 {
		return nil, fmt.Errorf("%w: start_time must not be negative", ErrInvalidArgument)
	}
	if in.End != nil && *in.End < in.Start {
		return nil, fmt.Errorf("%w: end_time %.3f before start_time %.3f", ErrInvalidArgument, *in.End, in.Start)
	}
	det, err := c.models.Detector()
	if err != nil {
		return nil, err
	}
	sc, err := c.models.Scorer()
	if err != nil {
		return nil, err
	}
	if c.decoder == nil {
		return nil, fmt.Errorf("%w: no video decoder configured", ErrNoFramesExtracted)
	}

	categories := in.Categories
	if len(categories) == 0 {
		categories = DefaultFrameCategories
	}

	now := time.Now()
	frames, window, err := Sample(ctx, c.decoder, in.VideoPath, SampleWindow{Start: in.Start, End: in.End, Count: in.Frames})
	if err != nil {
		return nil, err
	}

	var (
		detections []DetectionRecord
		scenes     []SceneLabelRecord
	)
	for _, f := range frames {
		r, err := AnalyzeFrame(ctx, det, sc, f, in.ConfidenceThreshold, categories)
		if err != nil {
			return nil, err
		}
		if r.Scenes.Err != nil {
			c.log.WarnContext(ctx, "scene analysis failed, frame contributes no labels",
				"timestamp", r.Timestamp,
				"err", r.Scenes.Err,
			)
		}
		detections = append(detections, r.Detections...)
		scenes = append(scenes, r.Scenes.Contribution()...)
	}

	out := Assemble(detections, scenes, len(frames), window, in.ConfidenceThreshold)
	c.log.InfoContext(ctx, "video segment analysis completed",
		"frames", len(frames),
		"objects", out.Summary.TotalObjects,
		"people", out.Summary.TotalPeople,
		"cost", time.Since(now).String(),
	)
	return out, nil
}

// Assemble 组装视频片段分析结果
func Assemble(detections []DetectionRecord, scenes []SceneLabelRecord, frames int, window TimeRange, threshold float64) *SegmentAnalysis {
	people := FilterPeople(detections)
	return &SegmentAnalysis{
		Objects:    toObjectSummaries(Aggregate(detections)),
		People:     toObjectSummaries(Aggregate(people)),
		Activities: InferActivities(detections),
		Scenes:     toSceneSummaries(Aggregate(scenes)),
		Summary: SegmentSummary{
			TotalObjects:        len(detections),
			TotalPeople:         len(people),
			FramesAnalyzed:      frames,
			TimeRange:           window,
			ConfidenceThreshold: threshold,
		},
	}
}

func toObjectSummaries(in []AggregatedRecord) []ObjectSummary {
	out := make([]ObjectSummary, 0, len(in))
	for _, v := range in {
		out = append(out, ObjectSummary{
			Name:        v.Key,
			Confidence:  v.MeanConfidence,
			Occurrences: v.Occurrences,
			FirstSeen:   v.FirstSeen,
			LastSeen:    v.LastSeen,
		})
	}
	return out
}

func toSceneSummaries(in []AggregatedRecord) []SceneSummary {
	out := make([]SceneSummary, 0, len(in))
	for _, v := range in {
		out = append(out, SceneSummary{
			Description: v.Key,
			Confidence:  v.MeanConfidence,
			Category:    Categorize(v.Key),
			Occurrences: v.Occurrences,
			FirstSeen:   v.FirstSeen,
			LastSeen:    v.LastSeen,
		})
	}
	return out
}
