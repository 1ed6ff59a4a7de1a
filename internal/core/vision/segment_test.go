package vision

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/gowvp/clipov/internal/core/model"
)

func TestAnalyzeSegment(t *testing.T) {
	dec := newDecoder(30, 20)
	det := &fakeDetector{byImage: map[string][]model.Detection{
		"frame-0":   {{ClassName: "person", Confidence: 0.6}, {ClassName: "laptop", Confidence: 0.9}},
		"frame-60":  {{ClassName: "person", Confidence: 0.8}},
		"frame-120": {{ClassName: "cup", Confidence: 0.55}},
	}}
	// 第二帧场景分析失败，只影响该帧的场景标签
	sc := &fakeScorer{scores: []float64{0.7, 0.3}, failFor: map[string]bool{"frame-60": true}}
	core := NewCore(fakeModels{det: det, sc: sc}, WithDecoder(dec))

	out, err := core.AnalyzeSegment(context.Background(), SegmentInput{
		VideoPath:           "v.mp4",
		End:                 ptr(10),
		Frames:              5,
		ConfidenceThreshold: 0.5,
		Categories:          []string{"office", "park"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if out.Summary.FramesAnalyzed != 5 || out.Summary.TotalObjects != 4 || out.Summary.TotalPeople != 2 {
		t.Fatalf("summary = %+v", out.Summary)
	}
	if out.Summary.TimeRange != (TimeRange{Start: 0, End: 10}) {
		t.Fatalf("time range = %+v", out.Summary.TimeRange)
	}
	if len(out.People) != 1 || out.People[0].Occurrences != 2 || out.People[0].FirstSeen != 0 || out.People[0].LastSeen != 2 {
		t.Fatalf("people = %+v", out.People)
	}
	if out.Objects[0].Name != "laptop" {
		t.Fatalf("objects not sorted: %+v", out.Objects)
	}
	if len(out.Activities) != 2 || out.Activities[0].Description != "working" || out.Activities[1].Description != "eating/drinking" {
		t.Fatalf("activities = %+v", out.Activities)
	}
	// 5 帧中 4 帧场景分析成功
	if len(out.Scenes) != 2 {
		t.Fatalf("scenes = %+v", out.Scenes)
	}
	if out.Scenes[0].Description != "office" || out.Scenes[0].Occurrences != 4 || out.Scenes[0].Category != CategoryIndoor {
		t.Fatalf("scenes[0] = %+v", out.Scenes[0])
	}
	if det.calls != 5 {
		t.Fatalf("detector called %d times", det.calls)
	}
	if dec.h.closed != 1 {
		t.Fatal("video handle not released")
	}
}

func TestAnalyzeSegmentDetectionFailure(t *testing.T) {
	dec := newDecoder(30, 20)
	det := &fakeDetector{err: errors.New("cuda out of memory")}
	core := NewCore(fakeModels{det: det, sc: &fakeScorer{}}, WithDecoder(dec))

	_, err := core.AnalyzeSegment(context.Background(), SegmentInput{VideoPath: "v.mp4", Frames: 5, ConfidenceThreshold: 0.5})
	if !errors.Is(err, ErrInferenceFailure) {
		t.Fatalf("expected ErrInferenceFailure, got %v", err)
	}
	if dec.h.closed != 1 {
		t.Fatal("video handle not released")
	}
}

func TestAnalyzeSegmentModelUnavailable(t *testing.T) {
	core := NewCore(fakeModels{det: &fakeDetector{}}, WithDecoder(newDecoder(30, 20)))
	_, err := core.AnalyzeSegment(context.Background(), SegmentInput{VideoPath: "v.mp4", Frames: 5, ConfidenceThreshold: 0.5})
	if !errors.Is(err, model.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}

// 模型服务中途卸载模型时，推理错误仍需保留 ErrModelUnavailable
func TestAnalyzeSegmentModelUnloaded(t *testing.T) {
	det := &fakeDetector{err: fmt.Errorf("%w: yolo", model.ErrModelUnavailable)}
	core := NewCore(fakeModels{det: det, sc: &fakeScorer{}}, WithDecoder(newDecoder(30, 20)))

	_, err := core.AnalyzeSegment(context.Background(), SegmentInput{VideoPath: "v.mp4", Frames: 5, ConfidenceThreshold: 0.5})
	if !errors.Is(err, model.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
	if !errors.Is(err, ErrInferenceFailure) {
		t.Fatalf("expected ErrInferenceFailure, got %v", err)
	}

	_, err = ScoreScenes(context.Background(), unloadedScorer{}, []byte("img"), []string{"office"}, SceneImageFloor, 0)
	if !errors.Is(err, model.ErrModelUnavailable) {
		t.Fatalf("ScoreScenes: expected ErrModelUnavailable, got %v", err)
	}
}

type unloadedScorer struct{}

func (unloadedScorer) Score(context.Context, []byte, []string) ([]float64, error) {
	return nil, fmt.Errorf("%w: clip", model.ErrModelUnavailable)
}

func TestAnalyzeSegmentValidation(t *testing.T) {
	core := NewCore(fakeModels{det: &fakeDetector{}, sc: &fakeScorer{}}, WithDecoder(newDecoder(30, 20)))
	cases := []SegmentInput{
		{Frames: 5, ConfidenceThreshold: 1.2},
		{Frames: 0, ConfidenceThreshold: 0.5},
		{Frames: 5, ConfidenceThreshold: 0.5, Start: 3, End: ptr(1)},
	}
	for _, in := range cases {
		if _, err := core.AnalyzeSegment(context.Background(), in); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("AnalyzeSegment(%+v) err = %v, want ErrInvalidArgument", in, err)
		}
	}
}

func TestAssembleEmpty(t *testing.T) {
	out := Assemble(nil, nil, 3, TimeRange{Start: 1, End: 6}, 0.4)
	if out.Objects == nil || out.People == nil || out.Activities == nil || out.Scenes == nil {
		t.Fatal("empty sections must encode as [] not null")
	}
	if out.Summary.FramesAnalyzed != 3 || out.Summary.ConfidenceThreshold != 0.4 {
		t.Fatalf("summary = %+v", out.Summary)
	}
}
