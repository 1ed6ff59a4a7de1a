package ffmpegadapter

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/gowvp/clipov/internal/core/vision"
	"github.com/gowvp/clipov/pkg/ffwork"
)

func TestOpenMissingFile(t *testing.T) {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not installed")
	}
	a := NewAdapter(ffwork.Config{})
	_, err := a.Open(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestSample(t *testing.T) {
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skip(bin, "not installed")
		}
	}
	src := filepath.Join(t.TempDir(), "test.mp4")
	gen := exec.Command("ffmpeg", "-hide_banner", "-loglevel", "error",
		"-f", "lavfi", "-i", "testsrc=duration=4:size=160x120:rate=10", src)
	if err := gen.Run(); err != nil {
		t.Skip("cannot generate sample video:", err)
	}

	end := 2.0
	frames, window, err := vision.Sample(context.Background(), NewAdapter(ffwork.Config{}), src, vision.SampleWindow{End: &end, Count: 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 4 || window.End != 2 {
		t.Fatalf("frames=%d window=%+v", len(frames), window)
	}
	if frames[1].Timestamp != 0.5 {
		t.Fatalf("timestamp = %v", frames[1].Timestamp)
	}

	_, _, err = vision.Sample(context.Background(), NewAdapter(ffwork.Config{}), filepath.Join(t.TempDir(), "nope.mp4"), vision.SampleWindow{Count: 1})
	if !errors.Is(err, vision.ErrNoFramesExtracted) {
		t.Fatalf("expected ErrNoFramesExtracted, got %v", err)
	}
}
