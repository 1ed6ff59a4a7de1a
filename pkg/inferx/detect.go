package inferx

import (
	"context"
	"encoding/base64"
	"fmt"
)

const (
	apiDetect     = "/v1/detect"
	apiSimilarity = "/v1/similarity"
	apiStatus     = "/v1/status"
)

type detectRequest struct {
	Image      string  `json:"image"`
	Confidence float64 `json:"confidence"`
}

// Box 归一化坐标
type Box struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

type Detection struct {
	ClassName  string  `json:"class_name"`
	Confidence float64 `json:"confidence"`
	Box        Box     `json:"box"`
}

type DetectResponse struct {
	Detections []Detection `json:"detections"`
}

// Detect 目标检测，仅返回置信度不低于 confidence 的实例
// 用法示例：
//
//	engine := inferx.NewEngine().SetConfig(inferx.Config{URL: "http://127.0.0.1:8501"})
//	items, err := engine.Detect(ctx, jpeg, 0.5)
func (e *Engine) Detect(ctx context.Context, image []byte, confidence float64) ([]Detection, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrBadInput)
	}
	var out DetectResponse
	if err := e.post(ctx, apiDetect, detectRequest{
		Image:      base64.StdEncoding.EncodeToString(image),
		Confidence: confidence,
	}, &out); err != nil {
		return nil, err
	}
	return out.Detections, nil
}

type StatusResponse struct {
	Device string          `json:"device"`
	Models map[string]bool `json:"models"`
}

// Status 推理服务的设备与模型加载状态
func (e *Engine) Status(ctx context.Context) (*StatusResponse, error) {
	var out StatusResponse
	if err := e.get(ctx, apiStatus, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
