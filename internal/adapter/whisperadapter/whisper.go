package whisperadapter

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/gowvp/clipov/internal/core/model"
	"github.com/sashabaranov/go-openai"
)

var (
	_ model.Transcriber = (*Adapter)(nil)
	_ model.Prober      = (*Adapter)(nil)
)

type Config struct {
	BaseURL string
	Token   string
	Model   string
}

// Adapter OpenAI 兼容的 whisper 转写服务
type Adapter struct {
	cli   *openai.Client
	model string
}

func NewAdapter(cfg Config) *Adapter {
	clientConfig := openai.DefaultConfig(cfg.Token)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	name := cfg.Model
	if name == "" {
		name = openai.Whisper1
	}
	return &Adapter{cli: openai.NewClientWithConfig(clientConfig), model: name}
}

// Transcribe implements model.Transcriber.
func (a *Adapter) Transcribe(ctx context.Context, audio []byte, filename, language string) (*model.Transcription, error) {
	if filename == "" {
		filename = "audio.wav"
	}
	resp, err := a.cli.CreateTranscription(ctx, openai.AudioRequest{
		Model: a.model,
		// FilePath 只用于 multipart 文件名
		FilePath: filename,
		Reader:   bytes.NewReader(audio),
		Language: language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, err
	}
	out := model.Transcription{
		Text:     resp.Text,
		Language: strings.ToLower(resp.Language),
		Duration: resp.Duration,
		Segments: make([]model.Segment, 0, len(resp.Segments)),
	}
	for _, s := range resp.Segments {
		out.Segments = append(out.Segments, model.Segment{Text: s.Text, Start: s.Start, End: s.End})
	}
	return &out, nil
}

// Ready implements model.Prober.
func (a *Adapter) Ready(ctx context.Context) error {
	if _, err := a.cli.ListModels(ctx); err != nil {
		return fmt.Errorf("whisper endpoint: %w", err)
	}
	return nil
}
