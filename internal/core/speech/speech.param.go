package speech

// TranscribeInput 转写参数
type TranscribeInput struct {
	Audio             []byte
	Filename          string
	Language          string // 为空时自动识别
	EnableDiarization bool
}

// AnalyzeInput 音频片段分析参数
type AnalyzeInput struct {
	Audio    []byte
	Filename string
	Start    float64
	End      *float64 // 为空时返回完整转写
}

// Word 估算了时间的单词
type Word struct {
	Word       string  `json:"word"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	Confidence float64 `json:"confidence"`
}

// Alternative 识别候选，无分段时不带 words
type Alternative struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
	Words      []Word  `json:"words,omitempty"`
}

// Speaker 说话人区间
type Speaker struct {
	SpeakerTag int    `json:"speakerTag"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
}

// Diarization 说话人分离结果
type Diarization struct {
	Speakers []Speaker `json:"speakers"`
}

// Result 一段识别结果
type Result struct {
	Alternatives       []Alternative `json:"alternatives"`
	LanguageCode       string        `json:"languageCode"`
	ResultEndTime      string        `json:"resultEndTime"`
	SpeakerDiarization *Diarization  `json:"speakerDiarization,omitempty"`
}

// TranscribeOutput 转写输出
type TranscribeOutput struct {
	Results []Result `json:"results"`
}

// TimedSegment 带置信度的分段
type TimedSegment struct {
	Text       string  `json:"text"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
}

// AnalyzeOutput 音频片段分析输出
type AnalyzeOutput struct {
	Transcript string         `json:"transcript"`
	Language   string         `json:"language"`
	Segments   []TimedSegment `json:"segments"`
	WordCount  int            `json:"word_count"`
	Duration   float64        `json:"duration"`
}
