package model

import (
	"context"
	"errors"
	"testing"
)

type fakeProber struct {
	err    error
	calls  int
	device string
}

func (f *fakeProber) Ready(context.Context) error {
	f.calls++
	return f.err
}

func (f *fakeProber) Device() string { return f.device }

type nopDetector struct{}

func (nopDetector) Detect(context.Context, []byte, float64) ([]Detection, error) { return nil, nil }

type nopScorer struct{}

func (nopScorer) Score(context.Context, []byte, []string) ([]float64, error) { return nil, nil }

func TestRegistryUnavailableBeforeInitialize(t *testing.T) {
	r := NewRegistry(Names{YOLO: "yolov8n.pt"}, WithDetector(nopDetector{}, &fakeProber{}))

	if _, err := r.Detector(); !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
	if _, err := r.Transcriber(); !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable for unset transcriber, got %v", err)
	}
}

func TestRegistryInitialize(t *testing.T) {
	yolo := &fakeProber{device: "cuda"}
	clip := &fakeProber{err: errors.New("connection refused")}
	r := NewRegistry(Names{YOLO: "yolov8n.pt", CLIP: "ViT-B-32", Whisper: "base"},
		WithDetector(nopDetector{}, yolo),
		WithScorer(nopScorer{}, clip),
	)

	err := r.Initialize(context.Background())
	if err == nil {
		t.Fatal("expected error for clip and whisper")
	}
	if _, err := r.Detector(); err != nil {
		t.Fatalf("detector should be loaded: %v", err)
	}
	if _, err := r.Scorer(); !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("scorer should be unavailable: %v", err)
	}

	info := r.Info()
	if info.AllLoaded() {
		t.Fatal("not all models loaded")
	}
	if info.Device != "cuda" {
		t.Fatalf("device = %s, want cuda", info.Device)
	}
	if got := info.Models[KindYOLO]; !got.Loaded || got.SizeMB != "6" {
		t.Fatalf("yolo info = %+v", got)
	}
	if got := info.Models[KindWhisper].SizeMB; got != "74" {
		t.Fatalf("whisper size = %s", got)
	}

	// 已加载的模型不再重复探测
	clip.err = nil
	_ = r.Initialize(context.Background())
	if yolo.calls != 1 {
		t.Fatalf("yolo probed %d times", yolo.calls)
	}
	if _, err := r.Scorer(); err != nil {
		t.Fatalf("scorer should be loaded after retry: %v", err)
	}

	r.Unload()
	if _, err := r.Detector(); !errors.Is(err, ErrModelUnavailable) {
		t.Fatal("detector should be unavailable after unload")
	}
}

func TestSizeOfUnknown(t *testing.T) {
	if got := sizeOf(clipSizes, "RN50"); got != "unknown" {
		t.Fatalf("sizeOf = %s", got)
	}
}
