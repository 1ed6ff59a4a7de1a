package speech

import (
	"log/slog"

	"github.com/gowvp/clipov/internal/core/model"
)

// Models 提供语音转写能力，未加载时返回 model.ErrModelUnavailable
type Models interface {
	Transcriber() (model.Transcriber, error)
}

// Core business domain
type Core struct {
	log    *slog.Logger
	models Models
}

// NewCore create business domain
func NewCore(models Models) Core {
	return Core{
		log:    slog.With("component", "speech"),
		models: models,
	}
}
