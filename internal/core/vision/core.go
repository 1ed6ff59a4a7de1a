package vision

import (
	"log/slog"

	"github.com/gowvp/clipov/internal/core/model"
)

// Models 提供视觉推理能力，未加载时返回 model.ErrModelUnavailable
type Models interface {
	Detector() (model.Detector, error)
	Scorer() (model.Scorer, error)
}

// Core business domain
type Core struct {
	log     *slog.Logger
	models  Models
	decoder Decoder
}

// Option 可选项
type Option func(*Core)

// WithDecoder 注入视频解码器
func WithDecoder(d Decoder) Option {
	return func(c *Core) {
		c.decoder = d
	}
}

// WithLogger 自定义日志
func WithLogger(log *slog.Logger) Option {
	return func(c *Core) {
		c.log = log
	}
}

// NewCore create business domain
func NewCore(models Models, opts ...Option) Core {
	c := Core{
		log:    slog.With("component", "vision"),
		models: models,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
