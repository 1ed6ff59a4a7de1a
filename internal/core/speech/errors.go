package speech

import "errors"

var (
	// ErrTranscriptionFailure 转写后端调用失败
	ErrTranscriptionFailure = errors.New("transcription failed")
	// ErrInvalidArgument 参数不合法
	ErrInvalidArgument = errors.New("invalid argument")
)
