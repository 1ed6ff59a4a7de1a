package vision

import (
	"context"
	"errors"
	"fmt"

	"github.com/gowvp/clipov/internal/core/model"
)

type fakeHandle struct {
	meta   VideoMeta
	bad    map[int]bool
	closed int
	read   []int
}

func (h *fakeHandle) Meta() VideoMeta { return h.meta }

func (h *fakeHandle) Frame(_ context.Context, index int) ([]byte, error) {
	h.read = append(h.read, index)
	if h.bad[index] {
		return nil, fmt.Errorf("decode frame %d", index)
	}
	return []byte(fmt.Sprintf("frame-%d", index)), nil
}

func (h *fakeHandle) Close() error {
	h.closed++
	return nil
}

type fakeDecoder struct {
	h   *fakeHandle
	err error
}

func (d *fakeDecoder) Open(context.Context, string) (VideoHandle, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.h, nil
}

func newDecoder(fps float64, seconds int) *fakeDecoder {
	return &fakeDecoder{h: &fakeHandle{meta: VideoMeta{
		FPS:        fps,
		FrameCount: int(fps) * seconds,
		Duration:   float64(seconds),
	}}}
}

// fakeDetector 按帧内容返回预设检测结果
type fakeDetector struct {
	byImage map[string][]model.Detection
	err     error
	calls   int
}

func (f *fakeDetector) Detect(_ context.Context, image []byte, _ float64) ([]model.Detection, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.byImage[string(image)], nil
}

type fakeScorer struct {
	scores  []float64
	failFor map[string]bool
}

func (f *fakeScorer) Score(_ context.Context, image []byte, prompts []string) ([]float64, error) {
	if f.failFor[string(image)] {
		return nil, errors.New("clip exploded")
	}
	if f.scores != nil {
		return f.scores, nil
	}
	out := make([]float64, len(prompts))
	for i := range out {
		out[i] = 1 / float64(len(prompts))
	}
	return out, nil
}

type fakeModels struct {
	det model.Detector
	sc  model.Scorer
}

func (m fakeModels) Detector() (model.Detector, error) {
	if m.det == nil {
		return nil, model.ErrModelUnavailable
	}
	return m.det, nil
}

func (m fakeModels) Scorer() (model.Scorer, error) {
	if m.sc == nil {
		return nil, model.ErrModelUnavailable
	}
	return m.sc, nil
}
