package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gowvp/clipov/internal/conf"
	"github.com/gowvp/clipov/internal/core/model"
	"github.com/ixugo/goddd/pkg/reason"
	"github.com/ixugo/goddd/pkg/web"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
)

// HealthAPI 健康检查，供探针与运维查看
type HealthAPI struct {
	conf     *conf.Bootstrap
	registry *model.Registry
	// cpuSample cpu 使用率采样时长
	cpuSample time.Duration
}

func NewHealthAPI(bc *conf.Bootstrap, r *model.Registry) HealthAPI {
	return HealthAPI{conf: bc, registry: r, cpuSample: time.Second}
}

func registerHealth(r gin.IRouter, api HealthAPI, handler ...gin.HandlerFunc) {
	group := r.Group("/health", handler...)
	group.GET("/", web.WrapH(api.getHealth))
	group.GET("/detailed", web.WrapH(api.getDetailed))
	group.GET("/models", web.WrapH(api.getModels))
	group.GET("/readiness", api.getReadiness)
	group.GET("/liveness", web.WrapH(api.getLiveness))
}

type getHealthOutput struct {
	Status  string    `json:"status"`
	Service string    `json:"service"`
	Version string    `json:"version"`
	Build   string    `json:"build,omitempty"`
	StartAt time.Time `json:"start_at"`
}

func (a HealthAPI) getHealth(_ *gin.Context, _ *struct{}) (getHealthOutput, error) {
	return getHealthOutput{
		Status:  "healthy",
		Service: serviceName,
		Version: serviceVersion,
		Build:   a.conf.BuildVersion,
		StartAt: startRuntime,
	}, nil
}

type memoryStat struct {
	Total     uint64  `json:"total"`
	Available uint64  `json:"available"`
	Percent   float64 `json:"percent"`
	Used      uint64  `json:"used"`
}

type diskStat struct {
	Total   uint64  `json:"total"`
	Free    uint64  `json:"free"`
	Used    uint64  `json:"used"`
	Percent float64 `json:"percent"`
}

type gpuStat struct {
	Available bool   `json:"available"`
	Device    string `json:"device"`
}

type systemStat struct {
	CPUPercent float64    `json:"cpu_percent"`
	Memory     memoryStat `json:"memory"`
	Disk       diskStat   `json:"disk"`
	GPU        gpuStat    `json:"gpu"`
}

type getDetailedOutput struct {
	getHealthOutput
	System systemStat `json:"system"`
}

// getDetailed 系统资源与推理设备
func (a HealthAPI) getDetailed(c *gin.Context, _ *struct{}) (*getDetailedOutput, error) {
	ctx := c.Request.Context()
	percents, err := cpu.PercentWithContext(ctx, a.cpuSample, false)
	if err != nil {
		return nil, reason.ErrServer.SetMsg("health check failed: " + err.Error())
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, reason.ErrServer.SetMsg("health check failed: " + err.Error())
	}
	du, err := disk.UsageWithContext(ctx, "/")
	if err != nil {
		return nil, reason.ErrServer.SetMsg("health check failed: " + err.Error())
	}

	base, _ := a.getHealth(c, nil)
	device := a.registry.Info().Device
	out := getDetailedOutput{
		getHealthOutput: base,
		System: systemStat{
			Memory: memoryStat{Total: vm.Total, Available: vm.Available, Percent: vm.UsedPercent, Used: vm.Used},
			Disk:   diskStat{Total: du.Total, Free: du.Free, Used: du.Used, Percent: du.UsedPercent},
			GPU:    gpuStat{Available: strings.HasPrefix(device, "cuda"), Device: device},
		},
	}
	if len(percents) > 0 {
		out.System.CPUPercent = percents[0]
	}
	return &out, nil
}

type getModelsOutput struct {
	Status string             `json:"status"`
	Models model.RegistryInfo `json:"models"`
}

// getModels 全部加载为 healthy，部分加载为 partial，均未加载为 initializing
func (a HealthAPI) getModels(_ *gin.Context, _ *struct{}) (getModelsOutput, error) {
	info := a.registry.Info()
	var loaded int
	for _, m := range info.Models {
		if m.Loaded {
			loaded++
		}
	}
	status := "partial"
	switch loaded {
	case len(info.Models):
		status = "healthy"
	case 0:
		status = "initializing"
	}
	return getModelsOutput{Status: status, Models: info}, nil
}

// getReadiness 模型未全部加载时返回 503
func (a HealthAPI) getReadiness(c *gin.Context) {
	if !a.registry.Info().AllLoaded() {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, failOutput{Reason: "NotReady", Msg: "Not all models loaded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (a HealthAPI) getLiveness(_ *gin.Context, _ *struct{}) (gin.H, error) {
	return gin.H{"status": "alive"}, nil
}
