package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ixugo/goddd/pkg/reason"
)

const (
	uploadField  = "file"
	uploadPrefix = "clipov-"
)

// uploadLimit 限制请求体大小，0 表示不限制
func uploadLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

func formFile(c *gin.Context) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(uploadField)
	if err != nil {
		if mbe := new(http.MaxBytesError); errors.As(err, &mbe) {
			return nil, reason.ErrBadRequest.SetMsg(fmt.Sprintf("file exceeds %d bytes", mbe.Limit))
		}
		return nil, reason.ErrBadRequest.SetMsg("multipart field 'file' is required")
	}
	return fh, nil
}

// readUpload 读取上传文件内容
func readUpload(c *gin.Context) ([]byte, string, error) {
	fh, err := formFile(c)
	if err != nil {
		return nil, "", err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", reason.ErrBadRequest.SetMsg(err.Error())
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, "", reason.ErrBadRequest.SetMsg(err.Error())
	}
	if len(b) == 0 {
		return nil, "", reason.ErrBadRequest.SetMsg("uploaded file is empty")
	}
	return b, fh.Filename, nil
}

// saveUpload 将上传文件保存为临时文件，调用方负责执行 cleanup
func saveUpload(c *gin.Context, dir string) (string, func(), error) {
	fh, err := formFile(c)
	if err != nil {
		return "", nil, err
	}
	if dir == "" {
		dir = os.TempDir()
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	dst := filepath.Join(dir, uploadPrefix+uuid.NewString()+ext)
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return "", nil, reason.ErrServer.SetMsg(err.Error())
	}
	cleanup := func() {
		if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("remove temp upload", "path", dst, "err", err)
		}
	}
	return dst, cleanup, nil
}

// StartUploadCleanupWorker 启动时清理一次，随后每小时清理超过 retain 的临时上传文件
// 正常请求结束时文件已删除，这里只处理进程异常退出的残留
// ctx 取消后退出
func StartUploadCleanupWorker(ctx context.Context, dir string, retain time.Duration) {
	if retain <= 0 {
		slog.Info("upload cleanup disabled")
		return
	}
	if dir == "" {
		dir = os.TempDir()
	}
	cleanupUploads(dir, retain)

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cleanupUploads(dir, retain)
		}
	}
}

// cleanupUploads 删除修改时间早于 now-retain 的临时上传文件，返回删除数量
func cleanupUploads(dir string, retain time.Duration) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		slog.Warn("read upload dir", "dir", dir, "err", err)
		return 0
	}
	cutoff := time.Now().Add(-retain)
	var deleted int
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), uploadPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			if !os.IsNotExist(err) {
				slog.Warn("failed to delete stale upload", "path", path, "err", err)
			}
			continue
		}
		deleted++
	}
	if deleted > 0 {
		slog.Info("upload cleanup completed", "files_deleted", deleted)
	}
	return deleted
}
