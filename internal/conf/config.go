package conf

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// SetupConfig 读取配置文件，文件不存在时写入默认配置
func SetupConfig(path string) (Bootstrap, error) {
	cfg := DefaultConfig()
	cfg.ConfigPath = path

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, WriteConfig(&cfg, path)
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// WriteConfig 将配置写入文件
func WriteConfig(cfg *Bootstrap, path string) error {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Validate 校验配置中影响分析结果的字段
func (c *Bootstrap) Validate() error {
	a := c.Analysis
	if a.DefaultFrames <= 0 {
		return fmt.Errorf("analysis.default_frames must be positive, got %d", a.DefaultFrames)
	}
	if a.MaxFrames < a.DefaultFrames {
		return fmt.Errorf("analysis.max_frames(%d) < default_frames(%d)", a.MaxFrames, a.DefaultFrames)
	}
	if a.ConfidenceThreshold < 0 || a.ConfidenceThreshold > 1 {
		return fmt.Errorf("analysis.confidence_threshold out of range: %v", a.ConfidenceThreshold)
	}
	if c.Models.ServerURL == "" {
		return fmt.Errorf("models.server_url is required")
	}
	return nil
}
