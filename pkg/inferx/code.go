package inferx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrModelNotLoaded 推理服务尚未加载所需模型
	ErrModelNotLoaded = errors.New("inferx: model not loaded")
	// ErrBadInput 推理服务拒绝了输入，通常是图片无法解码
	ErrBadInput = errors.New("inferx: bad input")
	// ErrUnauthorized 鉴权失败
	ErrUnauthorized = errors.New("inferx: unauthorized")
)

// FixedHeader 错误响应
type FixedHeader struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// statusError 将非 200 响应转换为错误
func statusError(code int, body []byte) error {
	msg := string(body)
	var h FixedHeader
	if isJSONResponse(body) && json.Unmarshal(body, &h) == nil && h.Msg != "" {
		msg = h.Msg
	}
	switch code {
	case http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %s", ErrModelNotLoaded, msg)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrBadInput, msg)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	default:
		return fmt.Errorf("inferx: unexpected status code %d: %s", code, msg)
	}
}

// isJSONResponse 检查响应体是否是 JSON 格式
func isJSONResponse(body []byte) bool {
	if len(body) == 0 {
		return false
	}
	return body[0] == '{' || body[0] == '['
}
