package modeladapter

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gowvp/clipov/internal/core/model"
	"github.com/gowvp/clipov/pkg/inferx"
)

var (
	_ model.Detector = (*Adapter)(nil)
	_ model.Scorer   = (*Adapter)(nil)
)

// HealthChecker gRPC 健康检查
type HealthChecker interface {
	Check(ctx context.Context) error
}

// Adapter 将推理服务适配为检测与相似度能力
type Adapter struct {
	engine *inferx.Engine
	health HealthChecker

	m      sync.RWMutex
	device string
}

// NewAdapter health 可以为 nil
func NewAdapter(engine *inferx.Engine, health HealthChecker) *Adapter {
	return &Adapter{engine: engine, health: health}
}

// Detect implements model.Detector.
func (a *Adapter) Detect(ctx context.Context, image []byte, confidence float64) ([]model.Detection, error) {
	items, err := a.engine.Detect(ctx, image, confidence)
	if err != nil {
		return nil, wrap(err)
	}
	out := make([]model.Detection, 0, len(items))
	for _, v := range items {
		out = append(out, model.Detection{
			ClassName:  v.ClassName,
			Confidence: v.Confidence,
			Box:        model.BoundingBox{Left: v.Box.X1, Top: v.Box.Y1, Right: v.Box.X2, Bottom: v.Box.Y2},
		})
	}
	return out, nil
}

// Score implements model.Scorer.
func (a *Adapter) Score(ctx context.Context, image []byte, prompts []string) ([]float64, error) {
	scores, err := a.engine.Similarity(ctx, image, prompts)
	if err != nil {
		return nil, wrap(err)
	}
	return scores, nil
}

// 推理服务报告模型未加载时视为能力不可用
func wrap(err error) error {
	if errors.Is(err, inferx.ErrModelNotLoaded) {
		return fmt.Errorf("%w: %s", model.ErrModelUnavailable, err)
	}
	return err
}

// Prober 返回指定模型的就绪探测
func (a *Adapter) Prober(kind string) model.Prober {
	return kindProber{a: a, kind: kind}
}

func (a *Adapter) ready(ctx context.Context, kind string) error {
	if a.health != nil {
		if err := a.health.Check(ctx); err != nil {
			return err
		}
	}
	s, err := a.engine.Status(ctx)
	if err != nil {
		return err
	}
	if s.Device != "" {
		a.m.Lock()
		a.device = s.Device
		a.m.Unlock()
	}
	if !s.Models[kind] {
		return fmt.Errorf("%s not loaded on model server", kind)
	}
	return nil
}

// Device 最近一次探测得到的推理设备
func (a *Adapter) Device() string {
	a.m.RLock()
	defer a.m.RUnlock()
	return a.device
}

type kindProber struct {
	a    *Adapter
	kind string
}

// Ready implements model.Prober.
func (p kindProber) Ready(ctx context.Context) error {
	return p.a.ready(ctx, p.kind)
}

// Device implements model.DeviceReporter.
func (p kindProber) Device() string {
	return p.a.Device()
}
