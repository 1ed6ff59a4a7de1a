package model

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// ErrModelUnavailable 所需模型尚未加载
var ErrModelUnavailable = errors.New("model not loaded")

// 模型种类
const (
	KindWhisper = "whisper"
	KindYOLO    = "yolo"
	KindCLIP    = "clip"
)

// Names 模型名称，用于状态展示
type Names struct {
	Whisper string
	YOLO    string
	CLIP    string
}

// Info 单个模型状态
type Info struct {
	Name   string `json:"name"`
	Loaded bool   `json:"loaded"`
	SizeMB string `json:"size_mb"`
}

// RegistryInfo 全部模型状态
type RegistryInfo struct {
	Device string          `json:"device"`
	Models map[string]Info `json:"models"`
}

// AllLoaded 是否全部模型就绪
func (r RegistryInfo) AllLoaded() bool {
	for _, m := range r.Models {
		if !m.Loaded {
			return false
		}
	}
	return true
}

// DeviceReporter 可上报推理设备的后端
type DeviceReporter interface {
	Device() string
}

type slot struct {
	kind   string
	name   string
	size   string
	prober Prober
	loaded atomic.Bool
}

// Registry 进程启动时构造一次，以引用方式注入到所有请求处理中
// 模型能力本身只读共享，仅加载状态会变化
type Registry struct {
	log         *slog.Logger
	detector    Detector
	scorer      Scorer
	transcriber Transcriber
	device      string

	whisper, yolo, clip *slot
}

// Option 注册表选项
type Option func(*Registry)

// WithDetector 注入目标检测能力及其就绪探测
func WithDetector(d Detector, p Prober) Option {
	return func(r *Registry) {
		r.detector = d
		r.yolo.prober = p
	}
}

// WithScorer 注入相似度能力及其就绪探测
func WithScorer(s Scorer, p Prober) Option {
	return func(r *Registry) {
		r.scorer = s
		r.clip.prober = p
	}
}

// WithTranscriber 注入转写能力及其就绪探测
func WithTranscriber(t Transcriber, p Prober) Option {
	return func(r *Registry) {
		r.transcriber = t
		r.whisper.prober = p
	}
}

// WithDevice 默认推理设备
func WithDevice(device string) Option {
	return func(r *Registry) {
		r.device = device
	}
}

// NewRegistry 创建模型注册表，此时所有模型均未加载
func NewRegistry(names Names, opts ...Option) *Registry {
	r := Registry{
		log:     slog.With("component", "models"),
		device:  "cpu",
		whisper: &slot{kind: KindWhisper, name: names.Whisper, size: sizeOf(whisperSizes, names.Whisper)},
		yolo:    &slot{kind: KindYOLO, name: names.YOLO, size: sizeOf(yoloSizes, names.YOLO)},
		clip:    &slot{kind: KindCLIP, name: names.CLIP, size: sizeOf(clipSizes, names.CLIP)},
	}
	for _, opt := range opts {
		opt(&r)
	}
	return &r
}

func (r *Registry) slots() []*slot {
	return []*slot{r.whisper, r.yolo, r.clip}
}

// Initialize 探测一次所有后端，返回未就绪模型的错误汇总
func (r *Registry) Initialize(ctx context.Context) error {
	var errs []error
	for _, s := range r.slots() {
		if err := r.probe(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) probe(ctx context.Context, s *slot) error {
	if s.loaded.Load() {
		return nil
	}
	if s.prober == nil {
		return fmt.Errorf("%s: no backend configured", s.kind)
	}
	if err := s.prober.Ready(ctx); err != nil {
		r.log.WarnContext(ctx, "model not ready", "kind", s.kind, "name", s.name, "err", err)
		return fmt.Errorf("%s: %w", s.kind, err)
	}
	s.loaded.Store(true)
	r.log.InfoContext(ctx, "model loaded", "kind", s.kind, "name", s.name, "size_mb", s.size)
	return nil
}

// StartProbeLoop 周期性探测未就绪的模型，全部就绪或 ctx 结束时退出
func (r *Registry) StartProbeLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if r.Info().AllLoaded() {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = r.Initialize(ctx)
		}
	}
}

// Unload 标记全部模型为未加载，用于关闭流程
func (r *Registry) Unload() {
	for _, s := range r.slots() {
		s.loaded.Store(false)
	}
	r.log.Info("model cleanup complete")
}

// Detector 返回目标检测能力
func (r *Registry) Detector() (Detector, error) {
	if r.detector == nil || !r.yolo.loaded.Load() {
		return nil, fmt.Errorf("%w: %s", ErrModelUnavailable, KindYOLO)
	}
	return r.detector, nil
}

// Scorer 返回相似度能力
func (r *Registry) Scorer() (Scorer, error) {
	if r.scorer == nil || !r.clip.loaded.Load() {
		return nil, fmt.Errorf("%w: %s", ErrModelUnavailable, KindCLIP)
	}
	return r.scorer, nil
}

// Transcriber 返回转写能力
func (r *Registry) Transcriber() (Transcriber, error) {
	if r.transcriber == nil || !r.whisper.loaded.Load() {
		return nil, fmt.Errorf("%w: %s", ErrModelUnavailable, KindWhisper)
	}
	return r.transcriber, nil
}

// Info 模型状态快照
func (r *Registry) Info() RegistryInfo {
	out := RegistryInfo{
		Device: r.device,
		Models: make(map[string]Info, 3),
	}
	for _, s := range r.slots() {
		out.Models[s.kind] = Info{Name: s.name, Loaded: s.loaded.Load(), SizeMB: s.size}
		if d, ok := s.prober.(DeviceReporter); ok && d.Device() != "" {
			out.Device = d.Device()
		}
	}
	return out
}
