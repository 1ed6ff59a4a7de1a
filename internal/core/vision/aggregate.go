package vision

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Keyed 可跨帧汇总的记录
type Keyed interface {
	Key() string
	Score() float64
	At() float64
}

type group struct {
	key         string
	scores      []float64
	first, last float64
}

// Aggregate 按 key 分组，组内求平均置信度、出现次数与首末时间
// 输出按平均置信度降序，相同置信度保持 key 首次出现的顺序
func Aggregate[R Keyed](records []R) []AggregatedRecord {
	if len(records) == 0 {
		return []AggregatedRecord{}
	}

	order := make([]*group, 0, 8)
	index := make(map[string]*group, 8)
	for _, r := range records {
		k, ts := r.Key(), r.At()
		g, ok := index[k]
		if !ok {
			g = &group{key: k, first: ts, last: ts}
			index[k] = g
			order = append(order, g)
		}
		g.scores = append(g.scores, r.Score())
		g.first = min(g.first, ts)
		g.last = max(g.last, ts)
	}

	out := make([]AggregatedRecord, 0, len(order))
	for _, g := range order {
		out = append(out, AggregatedRecord{
			Key:            g.key,
			MeanConfidence: stat.Mean(g.scores, nil),
			Occurrences:    len(g.scores),
			FirstSeen:      g.first,
			LastSeen:       g.last,
		})
	}
	slices.SortStableFunc(out, func(a, b AggregatedRecord) int {
		return cmp.Compare(b.MeanConfidence, a.MeanConfidence)
	})
	return out
}
