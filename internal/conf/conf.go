package conf

import (
	"fmt"
	"time"
)

// Bootstrap 服务全部配置
type Bootstrap struct {
	BuildVersion string   `toml:"-"`
	ConfigPath   string   `toml:"-"`
	Debug        bool     `toml:"-"`
	Server       Server   `toml:"server"`
	Log          Log      `toml:"log"`
	Models       Models   `toml:"models"`
	Analysis     Analysis `toml:"analysis"`
}

// Server 服务配置
type Server struct {
	Debug bool       `toml:"debug" comment:"调试模式，开启后记录请求体"`
	HTTP  ServerHTTP `toml:"http"`
}

// ServerHTTP http 服务配置
type ServerHTTP struct {
	Host          string      `toml:"host"`
	Port          int         `toml:"port"`
	ReadTimeout   Duration    `toml:"read_timeout"`
	WriteTimeout  Duration    `toml:"write_timeout"`
	MaxUploadMB   int64       `toml:"max_upload_mb" comment:"单次上传文件大小上限"`
	RateLimit     bool        `toml:"rate_limit" comment:"视频分析接口按客户端 IP 限流"`
	AllowOrigins  []string    `toml:"allow_origins" comment:"为空表示允许所有来源"`
	PProf         ServerPProf `toml:"pprof"`
	ShutdownGrace Duration    `toml:"shutdown_grace"`
}

// Addr 监听地址
func (s ServerHTTP) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ServerPProf 性能分析
type ServerPProf struct {
	Enabled   bool     `toml:"enabled"`
	AccessIps []string `toml:"access_ips"`
}

// Log 日志配置
type Log struct {
	Level  string `toml:"level" comment:"debug/info/warn/error"`
	Format string `toml:"format" comment:"text/json"`
}

// Models 外部模型服务配置
type Models struct {
	Device        string   `toml:"device" comment:"模型服务未上报设备时使用的默认值"`
	ServerURL     string   `toml:"server_url" comment:"检测与相似度模型服务 HTTP 地址"`
	GRPCAddr      string   `toml:"grpc_addr" comment:"模型服务 gRPC 健康检查地址，为空则使用 HTTP 状态接口"`
	Secret        string   `toml:"secret"`
	Timeout       Duration `toml:"timeout"`
	LogitScale    float64  `toml:"logit_scale" comment:"大于 0 时由客户端对相似度做 softmax"`
	YOLO          string   `toml:"yolo"`
	CLIP          string   `toml:"clip"`
	Whisper       string   `toml:"whisper"`
	WhisperURL    string   `toml:"whisper_url" comment:"OpenAI 兼容的转写服务地址"`
	WhisperToken  string   `toml:"whisper_token"`
	ProbeInterval Duration `toml:"probe_interval" comment:"模型未就绪时的重试间隔"`
}

// Analysis 分析参数默认值
type Analysis struct {
	FFmpegPath          string   `toml:"ffmpeg_path"`
	FFprobePath         string   `toml:"ffprobe_path"`
	TempDir             string   `toml:"temp_dir" comment:"上传文件临时目录，为空使用系统临时目录"`
	UploadRetain        Duration `toml:"upload_retain" comment:"异常残留的临时上传文件保留时长，0 表示不清理"`
	DefaultFrames       int      `toml:"default_frames"`
	MaxFrames           int      `toml:"max_frames"`
	ConfidenceThreshold float64  `toml:"confidence_threshold"`
}

// DefaultConfig 默认配置
func DefaultConfig() Bootstrap {
	return Bootstrap{
		Server: Server{
			HTTP: ServerHTTP{
				Host:          "0.0.0.0",
				Port:          8080,
				ReadTimeout:   Duration(60 * time.Second),
				WriteTimeout:  Duration(5 * time.Minute),
				MaxUploadMB:   512,
				RateLimit:     true,
				ShutdownGrace: Duration(10 * time.Second),
				PProf: ServerPProf{
					AccessIps: []string{"::1", "127.0.0.1"},
				},
			},
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
		Models: Models{
			Device:        "cpu",
			ServerURL:     "http://127.0.0.1:8501",
			GRPCAddr:      "127.0.0.1:50051",
			Timeout:       Duration(30 * time.Second),
			YOLO:          "yolov8n.pt",
			CLIP:          "ViT-B-32",
			Whisper:       "base",
			WhisperURL:    "http://127.0.0.1:8000/v1",
			ProbeInterval: Duration(15 * time.Second),
		},
		Analysis: Analysis{
			FFmpegPath:          "ffmpeg",
			FFprobePath:         "ffprobe",
			UploadRetain:        Duration(time.Hour),
			DefaultFrames:       5,
			MaxFrames:           60,
			ConfidenceThreshold: 0.5,
		},
	}
}
