package api

import (
	"expvar"
	"log/slog"
	"net/http"
	"runtime"
	"runtime/debug"
	"sort"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/ixugo/goddd/pkg/web"
)

var startRuntime = time.Now()

const (
	serviceName    = "Clipov AI Service"
	serviceVersion = "1.0.0"
)

func setupRouter(r *gin.Engine, uc *Usecase) {
	r.Use(
		// 格式化输出到控制台，然后记录到日志
		gin.CustomRecovery(func(c *gin.Context, err any) {
			slog.ErrorContext(c.Request.Context(), "panic", "err", err, "stack", string(debug.Stack()))
			c.AbortWithStatus(http.StatusInternalServerError)
		}),
		web.Metrics(),
		web.Logger(
			web.IgnoreMethod(http.MethodOptions),
			web.IgnorePrefix("/health/liveness"),
		),
		// 上传的是二进制文件，只在调试时记录 json 请求体
		web.LoggerWithBody(web.DefaultBodyLimit,
			web.IgnoreBool(uc.Conf.Debug),
			web.IgnoreMethod(http.MethodOptions),
			web.IgnorePrefix("/analyze"),
		),
	)
	go web.CountGoroutines(10*time.Minute, 20)

	r.Use(newCORS(uc.Conf.Server.HTTP.AllowOrigins))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/", web.WrapH(uc.getRoot))
	r.GET("/app/metrics/api", web.WrapH(uc.getMetricsAPI))

	limit := uploadLimit(uc.Conf.Server.HTTP.MaxUploadMB << 20)
	registerHealth(r, uc.HealthAPI)
	registerVisual(r, uc.VisualAPI, limit)
	registerAudio(r, uc.AudioAPI, limit)
}

func newCORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Accept", "Content-Length", "Content-Type", "Accept-Language",
			"Origin", "Authorization", "Referer", "User-Agent",
			"Accept-Encoding", "Cache-Control", "X-Requested-With",
			"X-Forwarded-For", "X-Real-IP", "X-Request-ID",
		},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) > 0 {
		cfg.AllowOrigins = origins
	} else {
		cfg.AllowOriginFunc = func(_ string) bool {
			return true
		}
	}
	return cors.New(cfg)
}

type getRootOutput struct {
	Service string            `json:"service"`
	Version string            `json:"version"`
	Build   string            `json:"build,omitempty"`
	Status  string            `json:"status"`
	Models  map[string]string `json:"models"`
}

func (uc *Usecase) getRoot(_ *gin.Context, _ *struct{}) (getRootOutput, error) {
	return getRootOutput{
		Service: serviceName,
		Version: serviceVersion,
		Build:   uc.Conf.BuildVersion,
		Status:  "running",
		Models: map[string]string{
			"audio":   "Whisper",
			"objects": "YOLOv8",
			"scenes":  "CLIP",
		},
	}, nil
}

type getMetricsAPIOutput struct {
	RealTimeRequests int64  `json:"real_time_requests"` // 实时请求数
	TotalRequests    int64  `json:"total_requests"`     // 总请求数
	TotalResponses   int64  `json:"total_responses"`    // 总响应数
	RequestTop10     []KV   `json:"request_top10"`      // 请求TOP10
	StatusCodeTop10  []KV   `json:"status_code_top10"`  // 状态码TOP10
	Goroutines       any    `json:"goroutines"`         // 协程数量
	NumGC            uint32 `json:"num_gc"`             // gc 次数
	SysAlloc         uint64 `json:"sys_alloc"`          // 内存占用
	StartAt          string `json:"start_at"`           // 运行时间
}

func (uc *Usecase) getMetricsAPI(_ *gin.Context, _ *struct{}) (*getMetricsAPIOutput, error) {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	out := getMetricsAPIOutput{
		RealTimeRequests: expvarInt("request"),
		TotalRequests:    expvarInt("requests"),
		TotalResponses:   expvarInt("responses"),
		RequestTop10:     sortExpvarMap("requestURLs", 10),
		StatusCodeTop10:  sortExpvarMap("statusCodes", 10),
		NumGC:            stats.NumGC,
		SysAlloc:         stats.Sys,
		StartAt:          startRuntime.Format(time.DateTime),
	}
	if g, ok := expvar.Get("goroutine_num").(expvar.Func); ok {
		out.Goroutines = g()
	}
	return &out, nil
}

func expvarInt(name string) int64 {
	if v, ok := expvar.Get(name).(*expvar.Int); ok {
		return v.Value()
	}
	return 0
}

type KV struct {
	Key   string
	Value int64
}

func sortExpvarMap(name string, top int) []KV {
	kvs := make([]KV, 0, 8)
	data, ok := expvar.Get(name).(*expvar.Map)
	if !ok {
		return kvs
	}
	data.Do(func(kv expvar.KeyValue) {
		if v, ok := kv.Value.(*expvar.Int); ok {
			kvs = append(kvs, KV{Key: kv.Key, Value: v.Value()})
		}
	})

	sort.Slice(kvs, func(i, j int) bool {
		return kvs[i].Value > kvs[j].Value
	})
	return kvs[:min(top, len(kvs))]
}
