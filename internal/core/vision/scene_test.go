package vision

import (
	"context"
	"errors"
	"testing"
)

func TestScoreScenesStrictFloor(t *testing.T) {
	sc := &fakeScorer{scores: []float64{0.15, 0.1500001, 0.6999999}}
	got, err := ScoreScenes(context.Background(), sc, []byte("img"), []string{"office", "park", "city"}, SceneFrameFloor, 3.5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("ScoreScenes() = %+v, want 2 labels", got)
	}
	if got[0].Description != "park" || got[1].Description != "city" {
		t.Fatalf("unexpected labels: %+v", got)
	}
	if got[0].Timestamp != 3.5 {
		t.Fatalf("timestamp = %v", got[0].Timestamp)
	}
}

func TestScoreScenesLengthMismatch(t *testing.T) {
	sc := &fakeScorer{scores: []float64{0.5}}
	_, err := ScoreScenes(context.Background(), sc, nil, []string{"a", "b"}, SceneFrameFloor, 0)
	if !errors.Is(err, ErrInferenceFailure) {
		t.Fatalf("expected ErrInferenceFailure, got %v", err)
	}
}

func TestPrompts(t *testing.T) {
	got := Prompts([]string{"office", "beach"})
	if got[0] != "a photo of office" || got[1] != "a photo of beach" {
		t.Fatalf("Prompts() = %v", got)
	}
}

func TestCategorize(t *testing.T) {
	cases := map[string]string{
		"kitchen":       CategoryIndoor,
		"Meeting":       CategoryIndoor,
		"outdoor scene": CategoryUnknown,
		"beach":         CategoryOutdoor,
		"city":          CategoryOutdoor,
		"concert":       CategoryUnknown,
	}
	for in, want := range cases {
		if got := Categorize(in); got != want {
			t.Errorf("Categorize(%q) = %s, want %s", in, got, want)
		}
	}
}
