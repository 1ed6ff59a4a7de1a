package vision

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/jinzhu/copier"
)

// DetectObjects 单张图片物体检测
func (c Core) DetectObjects(ctx context.Context, in DetectInput) (*DetectObjectsOutput, error) {
	records, err := c.detect(ctx, in)
	if err != nil {
		return nil, err
	}
	items := make([]ObjectAnnotation, 0, len(records))
	if err := toObjectAnnotations(&items, records); err != nil {
		return nil, fmt.Errorf("%w: copy detections: %w", ErrInferenceFailure, err)
	}
	c.log.InfoContext(ctx, "objects detected", "count", len(items))
	return &DetectObjectsOutput{ObjectAnnotations: items, TotalObjects: len(items)}, nil
}

// toObjectAnnotations 检测记录转换为响应结构，测试中可替换
var toObjectAnnotations = func(dst *[]ObjectAnnotation, src []DetectionRecord) error {
	return copier.Copy(dst, &src)
}

// DetectPeople 单张图片人物检测
func (c Core) DetectPeople(ctx context.Context, in DetectInput) (*DetectPeopleOutput, error) {
	records, err := c.detect(ctx, in)
	if err != nil {
		return nil, err
	}
	people := FilterPeople(records)
	items := make([]PersonAnnotation, 0, len(people))
	for _, p := range people {
		items = append(items, PersonAnnotation{
			Confidence:  p.Confidence,
			BoundingBox: p.BoundingBox,
			Attributes:  PersonAttributes{Clothing: "unknown", Pose: "unknown"},
		})
	}
	c.log.InfoContext(ctx, "people detected", "count", len(items))
	return &DetectPeopleOutput{PersonDetectionAnnotations: items, TotalPeople: len(items)}, nil
}

func (c Core) detect(ctx context.Context, in DetectInput) ([]DetectionRecord, error) {
	if err := validThreshold(in.ConfidenceThreshold); err != nil {
		return nil, err
	}
	det, err := c.models.Detector()
	if err != nil {
		return nil, err
	}
	return DetectFrame(ctx, det, in.Image, in.ConfidenceThreshold, 0)
}

// AnalyzeScene 单张图片场景分析，标签按置信度降序
func (c Core) AnalyzeScene(ctx context.Context, in SceneInput) (*AnalyzeSceneOutput, error) {
	sc, err := c.models.Scorer()
	if err != nil {
		return nil, err
	}
	categories := in.Categories
	if len(categories) == 0 {
		categories = DefaultImageCategories
	}
	records, err := ScoreScenes(ctx, sc, in.Image, categories, SceneImageFloor, 0)
	if err != nil {
		return nil, err
	}

	labels := make([]LabelAnnotation, 0, len(records))
	for _, r := range records {
		labels = append(labels, LabelAnnotation{
			Description: r.Description,
			Confidence:  r.Confidence,
			Category:    Categorize(r.Description),
		})
	}
	slices.SortStableFunc(labels, func(a, b LabelAnnotation) int {
		return cmp.Compare(b.Confidence, a.Confidence)
	})

	out := AnalyzeSceneOutput{LabelAnnotations: labels, TotalLabels: len(labels)}
	if len(labels) > 0 {
		dominant := labels[0]
		out.DominantScene = &dominant
	}
	c.log.InfoContext(ctx, "scene analyzed", "labels", len(labels))
	return &out, nil
}
