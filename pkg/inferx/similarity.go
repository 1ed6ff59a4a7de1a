package inferx

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

type similarityRequest struct {
	Image   string   `json:"image"`
	Prompts []string `json:"prompts"`
}

type SimilarityResponse struct {
	Scores []float64 `json:"scores"`
}

// Similarity 图文相似度，返回与 prompts 一一对应的概率分布
func (e *Engine) Similarity(ctx context.Context, image []byte, prompts []string) ([]float64, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrBadInput)
	}
	if len(prompts) == 0 {
		return []float64{}, nil
	}
	var out SimilarityResponse
	if err := e.post(ctx, apiSimilarity, similarityRequest{
		Image:   base64.StdEncoding.EncodeToString(image),
		Prompts: prompts,
	}, &out); err != nil {
		return nil, err
	}
	if len(out.Scores) != len(prompts) {
		return nil, fmt.Errorf("inferx: got %d scores for %d prompts", len(out.Scores), len(prompts))
	}
	if e.cfg.LogitScale > 0 {
		return Softmax(out.Scores, e.cfg.LogitScale), nil
	}
	return out.Scores, nil
}

// Softmax 计算 softmax(scale*x)
func Softmax(x []float64, scale float64) []float64 {
	out := make([]float64, len(x))
	if len(x) == 0 {
		return out
	}
	for i, v := range x {
		out[i] = v * scale
	}
	lse := floats.LogSumExp(out)
	for i := range out {
		out[i] = math.Exp(out[i] - lse)
	}
	return out
}
