package app

import (
	"io"
	"log/slog"
	"strings"

	"github.com/gowvp/clipov/internal/conf"
)

// SetupLog 按配置创建日志并设为默认
func SetupLog(w io.Writer, cfg conf.Log, debug bool) *slog.Logger {
	level := slog.LevelInfo
	// 无法识别的级别保持 info
	_ = level.UnmarshalText([]byte(cfg.Level))
	if debug {
		level = slog.LevelDebug
	}
	opts := slog.HandlerOptions{Level: level, AddSource: debug}

	var h slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		h = slog.NewJSONHandler(w, &opts)
	} else {
		h = slog.NewTextHandler(w, &opts)
	}
	log := slog.New(h)
	slog.SetDefault(log)
	return log
}
