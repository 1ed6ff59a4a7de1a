package api

import "strings"

// analyzeSegmentQuery 视频片段分析参数
type analyzeSegmentQuery struct {
	StartTime           float64  `form:"start_time" binding:"gte=0"`
	EndTime             *float64 `form:"end_time" binding:"omitempty,gte=0"`
	ExtractFrames       int      `form:"extract_frames" binding:"gte=1"`
	ConfidenceThreshold float64  `form:"confidence_threshold" binding:"gte=0,lte=1"`
	SceneCategories     []string `form:"scene_categories"`
}

// detectQuery 单图检测参数
type detectQuery struct {
	ConfidenceThreshold float64 `form:"confidence_threshold" binding:"gte=0,lte=1"`
}

// sceneQuery 单图场景分析参数
type sceneQuery struct {
	SceneCategories []string `form:"scene_categories"`
}

// splitCategories 同时支持重复参数与逗号分隔
func splitCategories(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		for item := range strings.SplitSeq(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}
