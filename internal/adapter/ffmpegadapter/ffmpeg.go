package ffmpegadapter

import (
	"context"
	"log/slog"

	"github.com/gowvp/clipov/internal/core/vision"
	"github.com/gowvp/clipov/pkg/ffwork"
)

var _ vision.Decoder = (*Adapter)(nil)

// Adapter 基于 ffprobe/ffmpeg 的视频解码
type Adapter struct {
	cfg ffwork.Config
}

func NewAdapter(cfg ffwork.Config) *Adapter {
	return &Adapter{cfg: cfg}
}

// Open implements vision.Decoder.
func (a *Adapter) Open(ctx context.Context, path string) (vision.VideoHandle, error) {
	v, err := ffwork.Open(ctx, a.cfg, path)
	if err != nil {
		return nil, err
	}
	return handle{v: v}, nil
}

type handle struct {
	v *ffwork.Video
}

// Meta implements vision.VideoHandle.
func (h handle) Meta() vision.VideoMeta {
	info := h.v.Info()
	return vision.VideoMeta{FPS: info.FPS, FrameCount: info.FrameCount, Duration: info.Duration}
}

// Frame implements vision.VideoHandle.
func (h handle) Frame(ctx context.Context, index int) ([]byte, error) {
	b, err := h.v.Frame(ctx, index)
	if err != nil {
		slog.DebugContext(ctx, "ffmpeg frame", "index", index, "err", err, "log", h.v.Log())
	}
	return b, err
}

// Close implements vision.VideoHandle.
func (h handle) Close() error {
	return h.v.Close()
}
