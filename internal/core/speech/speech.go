package speech

import (
	"context"
	"fmt"
	"time"

	"github.com/gowvp/clipov/internal/core/model"
)

// Transcribe 转写整段音频
func (c Core) Transcribe(ctx context.Context, in TranscribeInput) (*TranscribeOutput, error) {
	result, err := c.transcribe(ctx, in.Audio, in.Filename, in.Language)
	if err != nil {
		return nil, err
	}
	out := FormatTranscription(result, in.EnableDiarization)
	c.log.InfoContext(ctx, "audio transcription completed",
		"language", out.Results[0].LanguageCode,
		"segments", len(result.Segments),
	)
	return out, nil
}

// AnalyzeSegment 转写并截取 [start,end] 片段，end 为空时返回完整转写
func (c Core) AnalyzeSegment(ctx context.Context, in AnalyzeInput) (*AnalyzeOutput, error) {
	if in.Start < 0 {
		return nil, fmt.Errorf("%w: start_time must not be negative", ErrInvalidArgument)
	}
	if in.End != nil && *in.End < in.Start {
		return nil, fmt.Errorf("%w: end_time %.3f before start_time %.3f", ErrInvalidArgument, *in.End, in.Start)
	}
	result, err := c.transcribe(ctx, in.Audio, in.Filename, "")
	if err != nil {
		return nil, err
	}
	if in.End != nil {
		result = ExtractSegment(result, in.Start, *in.End)
	}
	return FormatAnalysis(result), nil
}

func (c Core) transcribe(ctx context.Context, audio []byte, filename, language string) (*model.Transcription, error) {
	tr, err := c.models.Transcriber()
	if err != nil {
		return nil, err
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: empty audio file", ErrInvalidArgument)
	}
	now := time.Now()
	result, err := tr.Transcribe(ctx, audio, filename, language)
	if err != nil {
		c.log.ErrorContext(ctx, "transcribe", "filename", filename, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrTranscriptionFailure, err)
	}
	c.log.DebugContext(ctx, "whisper responded", "filename", filename, "cost", time.Since(now).String())
	return result, nil
}
