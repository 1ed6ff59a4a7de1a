package model

// 各模型的大致体积 (MB)，仅用于状态展示
var (
	whisperSizes = map[string]string{
		"tiny":   "39",
		"base":   "74",
		"small":  "244",
		"medium": "769",
		"large":  "1550",
	}
	yoloSizes = map[string]string{
		"yolov8n.pt": "6",
		"yolov8s.pt": "22",
		"yolov8m.pt": "52",
		"yolov8l.pt": "87",
		"yolov8x.pt": "136",
	}
	clipSizes = map[string]string{
		"ViT-B-32": "151",
		"ViT-B-16": "338",
		"ViT-L-14": "427",
	}
)

func sizeOf(table map[string]string, name string) string {
	if v, ok := table[name]; ok {
		return v
	}
	return "unknown"
}
