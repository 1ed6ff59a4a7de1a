package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gowvp/clipov/internal/app"
	"github.com/gowvp/clipov/internal/conf"
	"github.com/ixugo/goddd/pkg/system"
)

var (
	buildVersion = "0.0.1" // 构建版本号
	configPath   = flag.String("conf", "", "config file path, default <workdir>/configs/config.toml")
	debug        = flag.Bool("debug", false, "enable debug log")
)

func main() {
	flag.Parse()

	path := *configPath
	if path == "" {
		path = filepath.Join(system.Getwd(), "configs", "config.toml")
	}
	bc, err := conf.SetupConfig(path)
	if err != nil {
		slog.Error("setup config", "path", path, "err", err)
		os.Exit(1)
	}
	bc.BuildVersion = buildVersion
	bc.Debug = *debug || bc.Server.Debug

	app.SetupLog(os.Stdout, bc.Log, bc.Debug)
	slog.Info("config loaded", "path", path, "models_server", bc.Models.ServerURL, "whisper", bc.Models.WhisperURL)

	if err := app.Run(&bc); err != nil {
		os.Exit(1)
	}
}
