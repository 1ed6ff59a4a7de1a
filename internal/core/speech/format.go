package speech

import (
	"fmt"
	"strings"

	"github.com/gowvp/clipov/internal/core/model"
)

// whisper 不提供置信度
const fixedConfidence = 1.0

const unknownLanguage = "unknown"

// Seconds 格式化为 "1.250s"
func Seconds(v float64) string {
	return fmt.Sprintf("%.3fs", v)
}

// EstimateWords 将分段时长平均分配给分段内的每个单词
func EstimateWords(segments []model.Segment) []Word {
	words := make([]Word, 0, len(segments)*4)
	for _, s := range segments {
		fields := strings.Fields(s.Text)
		if len(fields) == 0 {
			continue
		}
		step := (s.End - s.Start) / float64(len(fields))
		for i, w := range fields {
			start := s.Start + float64(i)*step
			words = append(words, Word{
				Word:       w,
				StartTime:  Seconds(start),
				EndTime:    Seconds(start + step),
				Confidence: fixedConfidence,
			})
		}
	}
	return words
}

// FormatTranscription 转换为云端语音识别的响应结构
func FormatTranscription(t *model.Transcription, diarization bool) *TranscribeOutput {
	transcript := strings.TrimSpace(t.Text)
	alt := Alternative{Transcript: transcript, Confidence: fixedConfidence}
	end := 0.0
	if n := len(t.Segments); n > 0 {
		alt.Words = EstimateWords(t.Segments)
		end = t.Segments[n-1].End
	}

	result := Result{
		Alternatives:  []Alternative{alt},
		LanguageCode:  languageOr(t.Language),
		ResultEndTime: Seconds(end),
	}
	// 仅模拟单一说话人
	if diarization && len(t.Segments) > 0 {
		result.SpeakerDiarization = &Diarization{Speakers: []Speaker{
			{SpeakerTag: 1, StartTime: Seconds(0), EndTime: Seconds(end)},
		}}
	}
	return &TranscribeOutput{Results: []Result{result}}
}

// ExtractSegment 保留与 [start,end] 有重叠的分段，时间改为相对 start 并截断到 [0, end-start]
func ExtractSegment(t *model.Transcription, start, end float64) *model.Transcription {
	out := model.Transcription{
		Language: t.Language,
		Segments: make([]model.Segment, 0, len(t.Segments)),
	}
	texts := make([]string, 0, len(t.Segments))
	for _, s := range t.Segments {
		if s.End < start || s.Start > end {
			continue
		}
		out.Segments = append(out.Segments, model.Segment{
			Text:  s.Text,
			Start: max(0, s.Start-start),
			End:   min(end-start, s.End-start),
		})
		texts = append(texts, s.Text)
	}
	out.Text = strings.Join(texts, " ")
	return &out
}

// FormatAnalysis 片段分析输出，duration 为最后一个分段的结束时间
func FormatAnalysis(t *model.Transcription) *AnalyzeOutput {
	text := strings.TrimSpace(t.Text)
	segments := make([]TimedSegment, 0, len(t.Segments))
	for _, s := range t.Segments {
		segments = append(segments, TimedSegment{
			Text:       strings.TrimSpace(s.Text),
			Start:      s.Start,
			End:        s.End,
			Confidence: fixedConfidence,
		})
	}
	out := AnalyzeOutput{
		Transcript: text,
		Language:   languageOr(t.Language),
		Segments:   segments,
		WordCount:  len(strings.Fields(text)),
	}
	if n := len(t.Segments); n > 0 {
		out.Duration = t.Segments[n-1].End
	}
	return &out
}

func languageOr(lang string) string {
	if lang == "" {
		return unknownLanguage
	}
	return lang
}
