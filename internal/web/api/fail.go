package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gowvp/clipov/internal/core/model"
	"github.com/gowvp/clipov/internal/core/speech"
	"github.com/gowvp/clipov/internal/core/vision"
	"github.com/ixugo/goddd/pkg/web"
)

type failOutput struct {
	Reason  string   `json:"reason"`
	Msg     string   `json:"msg"`
	Details []string `json:"details,omitempty"`
}

// fail 领域错误按类别映射状态码，其余交给 web.Fail
func fail(c *gin.Context, err error) {
	code, r := classify(err)
	if code == 0 {
		web.Fail(c, err)
		return
	}
	if code >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "err", err)
	}
	c.AbortWithStatusJSON(code, failOutput{Reason: r, Msg: err.Error()})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrModelUnavailable):
		return http.StatusServiceUnavailable, "ModelUnavailable"
	case errors.Is(err, vision.ErrNoFramesExtracted):
		return http.StatusBadRequest, "NoFramesExtracted"
	case errors.Is(err, vision.ErrInvalidArgument), errors.Is(err, speech.ErrInvalidArgument):
		return http.StatusBadRequest, "BadRequest"
	case errors.Is(err, vision.ErrInferenceFailure):
		return http.StatusInternalServerError, "InferenceFailure"
	case errors.Is(err, speech.ErrTranscriptionFailure):
		return http.StatusInternalServerError, "TranscriptionFailure"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Timeout"
	}
	return 0, ""
}
