package inferx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Config struct {
	URL    string
	Secret string
	// LogitScale 大于 0 时服务端返回原始余弦相似度，由客户端做 softmax(scale*score)
	LogitScale float64
	Timeout    time.Duration
}

// Engine 模型推理服务的 HTTP 客户端
type Engine struct {
	cfg Config
	cli *http.Client
}

func NewEngine() Engine {
	return Engine{
		cli: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        30,
				MaxIdleConnsPerHost: 30,
				MaxConnsPerHost:     100,
			},
		},
	}
}

func (e Engine) SetConfig(cfg Config) Engine {
	e.cfg = cfg
	if cfg.Timeout > 0 {
		cli := *e.cli
		cli.Timeout = cfg.Timeout
		e.cli = &cli
	}
	return e
}

// post 发送 POST 请求到推理服务
// 用法示例：e.post(ctx, "/v1/detect", detectRequest{...}, &response)
func (e *Engine) post(ctx context.Context, path string, data any, out any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("inferx: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.URL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("inferx: create request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return e.do(req, out)
}

// get 发送 GET 请求到推理服务
func (e *Engine) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.cfg.URL+path, nil)
	if err != nil {
		return fmt.Errorf("inferx: create request failed: %w", err)
	}
	return e.do(req, out)
}

func (e *Engine) do(req *http.Request, out any) error {
	if e.cfg.Secret != "" {
		req.Header.Set("Authorization", "Bearer "+e.cfg.Secret)
	}
	resp, err := e.cli.Do(req)
	if err != nil {
		return fmt.Errorf("inferx: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return statusError(resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("inferx: decode response: %w", err)
	}
	return nil
}
