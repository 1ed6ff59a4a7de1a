package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gowvp/clipov/internal/core/speech"
	"github.com/ixugo/goddd/pkg/reason"
	"github.com/ixugo/goddd/pkg/web"
)

// AudioAPI 语音分析接口
type AudioAPI struct {
	log  *slog.Logger
	core speech.Core
}

func NewAudioAPI(core speech.Core) AudioAPI {
	return AudioAPI{log: slog.With("api", "audio"), core: core}
}

func registerAudio(r gin.IRouter, api AudioAPI, handler ...gin.HandlerFunc) {
	group := r.Group("/analyze/audio", handler...)
	group.POST("/transcribe", api.transcribe)
	group.POST("/analyze", api.analyze)
}

type transcribeQuery struct {
	Language          string `form:"language"`
	EnableDiarization bool   `form:"enable_diarization"`
}

type analyzeAudioQuery struct {
	StartTime float64  `form:"start_time" binding:"gte=0"`
	EndTime   *float64 `form:"end_time" binding:"omitempty,gte=0"`
}

// transcribe 转写整段音频，输出云端语音识别格式
func (a AudioAPI) transcribe(c *gin.Context) {
	var q transcribeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		web.Fail(c, reason.ErrBadRequest.SetMsg(err.Error()))
		return
	}
	audio, filename, err := readUpload(c)
	if err != nil {
		web.Fail(c, err)
		return
	}
	a.log.InfoContext(c.Request.Context(), "transcribing audio file", "filename", filename, "size", len(audio))

	out, err := a.core.Transcribe(c.Request.Context(), speech.TranscribeInput{
		Audio:             audio,
		Filename:          filename,
		Language:          q.Language,
		EnableDiarization: q.EnableDiarization,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// analyze 音频片段分析，用于视频片段处理
func (a AudioAPI) analyze(c *gin.Context) {
	var q analyzeAudioQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		web.Fail(c, reason.ErrBadRequest.SetMsg(err.Error()))
		return
	}
	audio, filename, err := readUpload(c)
	if err != nil {
		web.Fail(c, err)
		return
	}
	out, err := a.core.AnalyzeSegment(c.Request.Context(), speech.AnalyzeInput{
		Audio:    audio,
		Filename: filename,
		Start:    q.StartTime,
		End:      q.EndTime,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
