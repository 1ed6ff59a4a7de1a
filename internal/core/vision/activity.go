package vision

import (
	"slices"
	"strings"
)

const personClass = "person"

// 活动推断的置信度为固定值，与检测置信度无关
const (
	SportsConfidence  = 0.8
	WorkingConfidence = 0.7
	DiningConfidence  = 0.6
)

type activityRule struct {
	description string
	confidence  float64
	triggers    []string
	evidence    []string
}

// activityRules 按声明顺序输出，规则之间互不排斥
var activityRules = []activityRule{
	{
		description: "sports activity",
		confidence:  SportsConfidence,
		triggers:    []string{"sports ball", "tennis racket", "baseball bat"},
		evidence:    []string{personClass, "sports equipment"},
	},
	{
		description: "working",
		confidence:  WorkingConfidence,
		triggers:    []string{"laptop", "keyboard", "mouse"},
		evidence:    []string{personClass, "work equipment"},
	},
	{
		description: "eating/drinking",
		confidence:  DiningConfidence,
		triggers:    []string{"cup", "fork", "knife", "spoon"},
		evidence:    []string{personClass, "dining items"},
	},
}

// InferActivities 根据同时出现的物体类别推断粗粒度活动，必须有人出现
func InferActivities(detections []DetectionRecord) []ActivityRecord {
	classes := make(map[string]struct{}, len(detections))
	for _, d := range detections {
		classes[strings.ToLower(d.Name)] = struct{}{}
	}

	out := make([]ActivityRecord, 0, len(activityRules))
	if _, ok := classes[personClass]; !ok {
		return out
	}
	for _, rule := range activityRules {
		for _, t := range rule.triggers {
			if _, ok := classes[t]; ok {
				out = append(out, ActivityRecord{
					Description: rule.description,
					Confidence:  rule.confidence,
					Evidence:    slices.Clone(rule.evidence),
				})
				break
			}
		}
	}
	return out
}

// IsPerson 类别名是否为人，不区分大小写
func IsPerson(name string) bool {
	return strings.EqualFold(name, personClass)
}

// FilterPeople 从检测结果中筛选人
func FilterPeople(detections []DetectionRecord) []DetectionRecord {
	out := make([]DetectionRecord, 0, len(detections))
	for _, d := range detections {
		if IsPerson(d.Name) {
			out = append(out, d)
		}
	}
	return out
}
