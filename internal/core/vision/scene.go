package vision

import "strings"

// 场景标签的显著性下限，严格大于才保留
// 两个值沿用线上行为，尚未确认其业务含义
const (
	// SceneFrameFloor 视频片段中逐帧场景分析的下限
	SceneFrameFloor = 0.15
	// SceneImageFloor 单张图片场景分析的下限
	SceneImageFloor = 0.1
)

// 场景大类
const (
	CategoryIndoor  = "indoor"
	CategoryOutdoor = "outdoor"
	CategoryUnknown = "unknown"
)

// DefaultFrameCategories 视频片段逐帧场景分析的默认类别
var DefaultFrameCategories = []string{
	"indoor", "outdoor", "office", "home", "street", "park",
	"sports", "meeting", "party", "nature", "city",
}

// DefaultImageCategories 单张图片场景分析的默认类别
var DefaultImageCategories = []string{
	"indoor scene", "outdoor scene", "office", "home", "restaurant",
	"street", "park", "beach", "mountain", "city", "nature",
	"sports", "concert", "meeting", "party", "kitchen", "bedroom",
}

var (
	indoorScenes  = []string{"office", "home", "restaurant", "kitchen", "bedroom", "meeting"}
	outdoorScenes = []string{"street", "park", "beach", "mountain", "city", "nature"}
)

// Prompt 将类别包装为图文匹配提示语
func Prompt(category string) string {
	return "a photo of " + category
}

// Prompts 批量生成提示语
func Prompts(categories []string) []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = Prompt(c)
	}
	return out
}

// Categorize 将场景描述归入室内、室外或未知
func Categorize(description string) string {
	d := strings.ToLower(description)
	for _, s := range indoorScenes {
		if strings.Contains(d, s) {
			return CategoryIndoor
		}
	}
	for _, s := range outdoorScenes {
		if strings.Contains(d, s) {
			return CategoryOutdoor
		}
	}
	return CategoryUnknown
}

// AboveFloor 分数是否严格超过下限
func AboveFloor(score, floor float64) bool {
	return score > floor
}
