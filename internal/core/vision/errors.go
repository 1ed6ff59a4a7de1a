package vision

import "errors"

var (
	// ErrNoFramesExtracted 时间窗口内取不到任何帧，属于客户端输入或媒体解码问题
	ErrNoFramesExtracted = errors.New("no frames could be extracted")
	// ErrInferenceFailure 模型推理调用失败
	ErrInferenceFailure = errors.New("inference failed")
	// ErrInvalidArgument 参数不合法
	ErrInvalidArgument = errors.New("invalid argument")
)
