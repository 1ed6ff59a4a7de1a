package ffwork

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/ixugo/goddd/pkg/queue"
)

// ErrNoVideoStream 文件中没有视频流
var ErrNoVideoStream = errors.New("no video stream")

type (
	Config struct {
		FFmpegPath  string
		FFprobePath string
		Threads     int
		HWAccel     string
	}
	// VideoInfo 探测得到的视频信息
	VideoInfo struct {
		FPS        float64
		FrameCount int
		Duration   float64
		Width      int
		Height     int
		Codec      string
	}
	// Video 一个已探测的本地视频，按需调用 ffmpeg 截取单帧
	Video struct {
		Name      string
		config    Config
		info      VideoInfo
		ffmpegLog *queue.CirQueue[string]
		m         sync.Mutex
		closed    bool
	}
)

func (c *Config) defaults() {
	if c.FFmpegPath == "" {
		c.FFmpegPath = "ffmpeg"
	}
	if c.FFprobePath == "" {
		c.FFprobePath = "ffprobe"
	}
}

// Open 探测视频并返回句柄
func Open(ctx context.Context, cfg Config, path string) (*Video, error) {
	if path == "" {
		return nil, fmt.Errorf("video path is required")
	}
	cfg.defaults()
	info, err := Probe(ctx, cfg, path)
	if err != nil {
		return nil, err
	}
	return &Video{
		Name:      path,
		config:    cfg,
		info:      *info,
		ffmpegLog: queue.NewCirQueue[string](100),
	}, nil
}

// Probe 使用 ffprobe 读取帧率、帧数与时长
func Probe(ctx context.Context, cfg Config, path string) (*VideoInfo, error) {
	cfg.defaults()
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}
	out, err := exec.CommandContext(ctx, cfg.FFprobePath, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}
	return parseProbe(out)
}

// probeResult ffprobe json 输出中用到的字段
type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType    string `json:"codec_type"`
		CodecName    string `json:"codec_name"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		RFrameRate   string `json:"r_frame_rate"`
		AvgFrameRate string `json:"avg_frame_rate"`
		NbFrames     string `json:"nb_frames"`
		Duration     string `json:"duration"`
	} `json:"streams"`
}

func parseProbe(b []byte) (*VideoInfo, error) {
	var probe probeResult
	if err := json.Unmarshal(b, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	for _, s := range probe.Streams {
		if s.CodecType != "video" {
			continue
		}
		info := VideoInfo{
			Width:  s.Width,
			Height: s.Height,
			Codec:  s.CodecName,
			FPS:    ParseFrameRate(s.RFrameRate),
		}
		if info.FPS <= 0 {
			info.FPS = ParseFrameRate(s.AvgFrameRate)
		}
		info.Duration = parseFloat(probe.Format.Duration)
		if info.Duration <= 0 {
			info.Duration = parseFloat(s.Duration)
		}
		// 部分容器不提供 nb_frames，按时长估算
		if n, err := strconv.Atoi(s.NbFrames); err == nil && n > 0 {
			info.FrameCount = n
		} else {
			info.FrameCount = int(info.Duration * info.FPS)
		}
		return &info, nil
	}
	return nil, ErrNoVideoStream
}

// ParseFrameRate 解析 "30000/1001" 或 "25" 格式的帧率
func ParseFrameRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	n := parseFloat(num)
	if !ok {
		return n
	}
	d := parseFloat(den)
	if d == 0 {
		return 0
	}
	return n / d
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// Info 视频信息
func (v *Video) Info() VideoInfo {
	return v.info
}

// Frame 按帧序号截取一帧，时间点为 index/fps
func (v *Video) Frame(ctx context.Context, index int) ([]byte, error) {
	if index < 0 {
		return nil, fmt.Errorf("invalid frame index: %d", index)
	}
	if v.info.FPS <= 0 {
		return nil, fmt.Errorf("invalid fps: %v", v.info.FPS)
	}
	return v.SnapshotAt(ctx, float64(index)/v.info.FPS)
}

func (v *Video) buildFFmpegArgs(at float64) []string {
	args := []string{
		"-hide_banner",
		"-loglevel", "warning",
	}
	if v.config.Threads > 0 {
		args = append(args, "-threads", strconv.Itoa(v.config.Threads))
	}
	if v.config.HWAccel != "" {
		args = append(args, "-hwaccel", v.config.HWAccel)
	}
	args = append(args,
		"-ss", strconv.FormatFloat(at, 'f', 6, 64),
		"-i", v.Name,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-q:v", "2",
		"pipe:1",
	)
	return args
}

// SnapshotAt 截取指定秒数处的一帧 jpeg
func (v *Video) SnapshotAt(ctx context.Context, at float64) ([]byte, error) {
	v.m.Lock()
	closed := v.closed
	v.m.Unlock()
	if closed {
		return nil, fmt.Errorf("video already closed")
	}

	cmd := exec.CommandContext(ctx, v.config.FFmpegPath, v.buildFFmpegArgs(at)...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to get stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}
	// stderr 必须在 Wait 之前读完
	v.readStderr(stderr)
	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("ffmpeg snapshot at %.3fs: %w", at, err)
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no frame at %.3fs", at)
	}
	return stdout.Bytes(), nil
}

// readStderr 读取 ffmpeg 的 stderr 输出用于日志记录
func (v *Video) readStderr(stderr io.Reader) {
	scan := bufio.NewScanner(stderr)
	for scan.Scan() {
		v.ffmpegLog.Push(scan.Text())
	}
}

// Log 最近的 ffmpeg 输出
func (v *Video) Log() []string {
	return v.ffmpegLog.Range()
}

// Close 关闭后不可再截帧
func (v *Video) Close() error {
	v.m.Lock()
	defer v.m.Unlock()
	v.closed = true
	return nil
}
