package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"github.com/gowvp/clipov/internal/adapter/ffmpegadapter"
	"github.com/gowvp/clipov/internal/adapter/modeladapter"
	"github.com/gowvp/clipov/internal/adapter/whisperadapter"
	"github.com/gowvp/clipov/internal/conf"
	"github.com/gowvp/clipov/internal/core/model"
	"github.com/gowvp/clipov/internal/core/speech"
	"github.com/gowvp/clipov/internal/core/vision"
	"github.com/gowvp/clipov/internal/rpc"
	"github.com/gowvp/clipov/pkg/ffwork"
	"github.com/gowvp/clipov/pkg/inferx"
	"github.com/ixugo/goddd/pkg/web"
)

var ProviderSet = wire.NewSet(
	wire.Struct(new(Usecase), "*"),
	NewHTTPHandler,
	NewInferEngine, NewHealthClient, NewModelAdapter, NewWhisperAdapter,
	NewModelRegistry,
	NewVisionCore, NewVisualAPI,
	NewSpeechCore, NewAudioAPI,
	NewHealthAPI,
)

type Usecase struct {
	Conf     *conf.Bootstrap
	Registry *model.Registry

	VisualAPI VisualAPI
	AudioAPI  AudioAPI
	HealthAPI HealthAPI
}

// NewHTTPHandler 生成Gin框架路由内容，cleanup 停止临时文件清理任务
func NewHTTPHandler(uc *Usecase) (http.Handler, func()) {
	cfg := uc.Conf.Server
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	g := gin.New()
	g.MaxMultipartMemory = 32 << 20
	g.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"msg": "来到了无人的荒漠"})
	})
	// 如果启用了 Pprof，设置 Pprof 监控
	if cfg.HTTP.PProf.Enabled {
		web.SetupPProf(g, &cfg.HTTP.PProf.AccessIps)
	}

	setupRouter(g, uc)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		StartUploadCleanupWorker(ctx, uc.Conf.Analysis.TempDir, uc.Conf.Analysis.UploadRetain.Duration())
	}()
	return g, func() {
		cancel()
		<-done
	}
}

// NewInferEngine 检测与相似度模型服务客户端
func NewInferEngine(bc *conf.Bootstrap) *inferx.Engine {
	e := inferx.NewEngine().SetConfig(inferx.Config{
		URL:        bc.Models.ServerURL,
		Secret:     bc.Models.Secret,
		LogitScale: bc.Models.LogitScale,
		Timeout:    bc.Models.Timeout.Duration(),
	})
	return &e
}

// NewHealthClient 未配置 gRPC 地址时返回 nil
func NewHealthClient(bc *conf.Bootstrap) (*rpc.HealthClient, func(), error) {
	if bc.Models.GRPCAddr == "" {
		return nil, func() {}, nil
	}
	cli, err := rpc.NewHealthClient(bc.Models.GRPCAddr)
	if err != nil {
		return nil, nil, err
	}
	return cli, func() { _ = cli.Close() }, nil
}

func NewModelAdapter(engine *inferx.Engine, health *rpc.HealthClient) *modeladapter.Adapter {
	// nil 指针不能直接赋给接口
	var hc modeladapter.HealthChecker
	if health != nil {
		hc = health
	}
	return modeladapter.NewAdapter(engine, hc)
}

func NewWhisperAdapter(bc *conf.Bootstrap) *whisperadapter.Adapter {
	return whisperadapter.NewAdapter(whisperadapter.Config{
		BaseURL: bc.Models.WhisperURL,
		Token:   bc.Models.WhisperToken,
		Model:   bc.Models.Whisper,
	})
}

// NewModelRegistry 进程内唯一的模型注册表
// 后台探测各模型服务，未就绪的按 probe_interval 重试
func NewModelRegistry(bc *conf.Bootstrap, ma *modeladapter.Adapter, wa *whisperadapter.Adapter) (*model.Registry, func()) {
	m := bc.Models
	r := model.NewRegistry(
		model.Names{Whisper: m.Whisper, YOLO: m.YOLO, CLIP: m.CLIP},
		model.WithDevice(m.Device),
		model.WithDetector(ma, ma.Prober(model.KindYOLO)),
		model.WithScorer(ma, ma.Prober(model.KindCLIP)),
		model.WithTranscriber(wa, wa),
	)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := r.Initialize(ctx); err != nil {
			slog.Warn("some models are not ready", "err", err)
		}
		r.StartProbeLoop(ctx, m.ProbeInterval.Duration())
	}()
	return r, func() {
		cancel()
		r.Unload()
	}
}

func NewVisionCore(bc *conf.Bootstrap, r *model.Registry) vision.Core {
	return vision.NewCore(r, vision.WithDecoder(ffmpegadapter.NewAdapter(ffwork.Config{
		FFmpegPath:  bc.Analysis.FFmpegPath,
		FFprobePath: bc.Analysis.FFprobePath,
	})))
}

func NewSpeechCore(r *model.Registry) speech.Core {
	return speech.NewCore(r)
}
