package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gowvp/clipov/internal/conf"
	"github.com/gowvp/clipov/internal/core/vision"
	"github.com/ixugo/goddd/pkg/reason"
	"github.com/ixugo/goddd/pkg/web"
)

// VisualAPI 视觉分析接口
type VisualAPI struct {
	log     *slog.Logger
	conf    *conf.Bootstrap
	core    vision.Core
	limiter func(identifier string) bool
}

func NewVisualAPI(bc *conf.Bootstrap, core vision.Core) VisualAPI {
	api := VisualAPI{
		log:  slog.With("api", "visual"),
		conf: bc,
		core: core,
	}
	if bc.Server.HTTP.RateLimit {
		// 每个客户端 5 秒一次，允许突发 3 次
		api.limiter = web.IDRateLimiter(0.2, 3, 3*time.Minute)
	}
	return api
}

func registerVisual(r gin.IRouter, api VisualAPI, handler ...gin.HandlerFunc) {
	group := r.Group("/analyze/visual", handler...)
	group.POST("/analyze-video-segment", api.analyzeVideoSegment)
	group.POST("/detect-objects", api.detectObjects)
	group.POST("/detect-people", api.detectPeople)
	group.POST("/analyze-scene", api.analyzeScene)
}

// analyzeVideoSegment 视频片段分析，单个请求内逐帧顺序执行
func (a VisualAPI) analyzeVideoSegment(c *gin.Context) {
	if a.limiter != nil && !a.limiter(c.ClientIP()) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, failOutput{Reason: "TooManyRequests", Msg: "video analysis rate limit exceeded"})
		return
	}

	in := analyzeSegmentQuery{
		ExtractFrames:       a.conf.Analysis.DefaultFrames,
		ConfidenceThreshold: a.conf.Analysis.ConfidenceThreshold,
	}
	if err := c.ShouldBindQuery(&in); err != nil {
		web.Fail(c, reason.ErrBadRequest.SetMsg(err.Error()))
		return
	}
	if limit := a.conf.Analysis.MaxFrames; limit > 0 && in.ExtractFrames > limit {
		web.Fail(c, reason.ErrBadRequest.SetMsg(fmt.Sprintf("extract_frames must not exceed %d", limit)))
		return
	}

	path, cleanup, err := saveUpload(c, a.conf.Analysis.TempDir)
	if err != nil {
		web.Fail(c, err)
		return
	}
	defer cleanup()
	a.log.InfoContext(c.Request.Context(), "analyzing video segment",
		"path", path,
		"start_time", in.StartTime,
		"frames", in.ExtractFrames,
	)

	out, err := a.core.AnalyzeSegment(c.Request.Context(), vision.SegmentInput{
		VideoPath:           path,
		Start:               in.StartTime,
		End:                 in.EndTime,
		Frames:              in.ExtractFrames,
		ConfidenceThreshold: in.ConfidenceThreshold,
		Categories:          splitCategories(in.SceneCategories),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (a VisualAPI) detectObjects(c *gin.Context) {
	in, ok := a.bindDetect(c)
	if !ok {
		return
	}
	out, err := a.core.DetectObjects(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (a VisualAPI) detectPeople(c *gin.Context) {
	in, ok := a.bindDetect(c)
	if !ok {
		return
	}
	out, err := a.core.DetectPeople(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (a VisualAPI) bindDetect(c *gin.Context) (vision.DetectInput, bool) {
	q := detectQuery{ConfidenceThreshold: a.conf.Analysis.ConfidenceThreshold}
	if err := c.ShouldBindQuery(&q); err != nil {
		web.Fail(c, reason.ErrBadRequest.SetMsg(err.Error()))
		return vision.DetectInput{}, false
	}
	img, _, err := readUpload(c)
	if err != nil {
		web.Fail(c, err)
		return vision.DetectInput{}, false
	}
	return vision.DetectInput{Image: img, ConfidenceThreshold: q.ConfidenceThreshold}, true
}

func (a VisualAPI) analyzeScene(c *gin.Context) {
	var q sceneQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		web.Fail(c, reason.ErrBadRequest.SetMsg(err.Error()))
		return
	}
	img, _, err := readUpload(c)
	if err != nil {
		web.Fail(c, err)
		return
	}
	out, err := a.core.AnalyzeScene(c.Request.Context(), vision.SceneInput{
		Image:      img,
		Categories: splitCategories(q.SceneCategories),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
