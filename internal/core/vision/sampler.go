package vision

import (
	"context"
	"fmt"
	"log/slog"
)

// DefaultWindow 未指定结束时间时的默认窗口长度 (秒)
const DefaultWindow = 5.0

// VideoMeta 视频元信息
type VideoMeta struct {
	FPS        float64
	FrameCount int
	Duration   float64
}

// VideoHandle 已打开的视频解码句柄
type VideoHandle interface {
	Meta() VideoMeta
	// Frame 解码指定帧序号，返回 JPEG 图像
	Frame(ctx context.Context, index int) ([]byte, error)
	Close() error
}

// Decoder 打开视频资源
type Decoder interface {
	Open(ctx context.Context, path string) (VideoHandle, error)
}

// Frame 采样得到的静态帧
type Frame struct {
	Index     int
	Timestamp float64
	Image     []byte
}

// SampleWindow 采样窗口
type SampleWindow struct {
	Start float64
	End   *float64 // nil 表示 min(Start+5, 时长)
	Count int
}

// ResolveEnd 计算实际结束时间
func (w SampleWindow) ResolveEnd(duration float64) float64 {
	if w.End != nil {
		return *w.End
	}
	return min(w.Start+DefaultWindow, duration)
}

// PlanFrames 计算窗口内均匀分布的帧序号，最多 count 个
func PlanFrames(fps, start, end float64, count int) []int {
	if count <= 0 || fps <= 0 {
		return nil
	}
	startFrame := int(start * fps)
	endFrame := int(end * fps)
	interval := max(1, (endFrame-startFrame)/count)

	out := make([]int, 0, count)
	for i := range count {
		pos := startFrame + i*interval
		if pos >= endFrame {
			break
		}
		out = append(out, pos)
	}
	return out
}

// Sample 从视频时间窗口中均匀采样静态帧
// 解码句柄在任何返回路径上都会被释放；一帧都取不到时返回 ErrNoFramesExtracted
func Sample(ctx context.Context, dec Decoder, path string, w SampleWindow) ([]Frame, TimeRange, error) {
	if w.Count <= 0 {
		return nil, TimeRange{}, fmt.Errorf("%w: frame count must be positive, got %d", ErrInvalidArgument, w.Count)
	}

	h, err := dec.Open(ctx, path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, TimeRange{}, ctx.Err()
		}
		return nil, TimeRange{}, fmt.Errorf("%w: open video: %s", ErrNoFramesExtracted, err)
	}
	defer func() {
		if err := h.Close(); err != nil {
			slog.WarnContext(ctx, "close video handle", "path", path, "err", err)
		}
	}()

	meta := h.Meta()
	duration := meta.Duration
	if meta.FPS > 0 && meta.FrameCount > 0 {
		duration = float64(meta.FrameCount) / meta.FPS
	}
	window := TimeRange{Start: w.Start, End: w.ResolveEnd(duration)}

	positions := PlanFrames(meta.FPS, window.Start, window.End, w.Count)
	frames := make([]Frame, 0, len(positions))
	for _, pos := range positions {
		img, err := h.Frame(ctx, pos)
		if err != nil {
			if ctx.Err() != nil {
				return nil, window, ctx.Err()
			}
			slog.DebugContext(ctx, "skip undecodable frame", "index", pos, "err", err)
			continue
		}
		frames = append(frames, Frame{
			Index:     pos,
			Timestamp: float64(pos) / meta.FPS,
			Image:     img,
		})
	}

	if len(frames) == 0 {
		return nil, window, fmt.Errorf("%w: window [%.3f, %.3f] fps %.2f", ErrNoFramesExtracted, window.Start, window.End, meta.FPS)
	}
	return frames, window, nil
}
