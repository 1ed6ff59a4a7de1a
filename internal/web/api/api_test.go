package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gowvp/clipov/internal/conf"
	"github.com/gowvp/clipov/internal/core/model"
	"github.com/gowvp/clipov/internal/core/speech"
	"github.com/gowvp/clipov/internal/core/vision"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type readyProber struct{ err error }

func (p readyProber) Ready(context.Context) error { return p.err }

type stubDetector struct {
	items []model.Detection
	err   error
}

func (d stubDetector) Detect(context.Context, []byte, float64) ([]model.Detection, error) {
	return d.items, d.err
}

type stubScorer struct{}

// Score 第一个类别 0.9，其余平分
func (stubScorer) Score(_ context.Context, _ []byte, prompts []string) ([]float64, error) {
	out := make([]float64, len(prompts))
	for i := range out {
		out[i] = 0.1 / float64(max(len(prompts)-1, 1))
	}
	out[0] = 0.9
	return out, nil
}

type stubTranscriber struct{}

func (stubTranscriber) Transcribe(context.Context, []byte, string, string) (*model.Transcription, error) {
	return &model.Transcription{
		Text:     "hello world again",
		Language: "en",
		Segments: []model.Segment{
			{Text: "hello world", Start: 0, End: 2},
			{Text: "again", Start: 5, End: 6},
		},
	}, nil
}

// fileDecoder 检查上传的临时文件确实存在，按 30fps 10 秒返回帧
type fileDecoder struct {
	opened []string
}

func (d *fileDecoder) Open(_ context.Context, path string) (vision.VideoHandle, error) {
	d.opened = append(d.opened, path)
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return stubHandle{}, nil
}

type stubHandle struct{}

func (stubHandle) Meta() vision.VideoMeta {
	return vision.VideoMeta{FPS: 30, FrameCount: 300, Duration: 10}
}

func (stubHandle) Frame(_ context.Context, index int) ([]byte, error) {
	return fmt.Appendf(nil, "frame-%d", index), nil
}

func (stubHandle) Close() error { return nil }

type testEnv struct {
	conf     *conf.Bootstrap
	registry *model.Registry
	decoder  *fileDecoder
	uc       *Usecase
}

func newTestEnv(t *testing.T, det stubDetector, opts ...model.Option) *testEnv {
	t.Helper()
	bc := conf.DefaultConfig()
	bc.Server.HTTP.RateLimit = false
	bc.Analysis.TempDir = t.TempDir()

	base := []model.Option{
		model.WithDetector(det, readyProber{}),
		model.WithScorer(stubScorer{}, readyProber{}),
		model.WithTranscriber(stubTranscriber{}, readyProber{}),
	}
	reg := model.NewRegistry(model.Names{Whisper: "base", YOLO: "yolov8n.pt", CLIP: "ViT-B-32"}, append(base, opts...)...)
	_ = reg.Initialize(context.Background())

	dec := &fileDecoder{}
	uc := Usecase{
		Conf:      &bc,
		Registry:  reg,
		VisualAPI: NewVisualAPI(&bc, vision.NewCore(reg, vision.WithDecoder(dec))),
		AudioAPI:  NewAudioAPI(speech.NewCore(reg)),
		HealthAPI: NewHealthAPI(&bc, reg),
	}
	uc.HealthAPI.cpuSample = 0
	return &testEnv{conf: &bc, registry: reg, decoder: dec, uc: &uc}
}

// router 只注册业务路由，不挂载全局中间件
func (e *testEnv) router() *gin.Engine {
	g := gin.New()
	limit := uploadLimit(e.conf.Server.HTTP.MaxUploadMB << 20)
	registerHealth(g, e.uc.HealthAPI)
	registerVisual(g, e.uc.VisualAPI, limit)
	registerAudio(g, e.uc.AudioAPI, limit)
	return g
}

func upload(t *testing.T, h http.Handler, target, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if filename != "" {
		fw, err := w.CreateFormFile(uploadField, filename)
		require.NoError(t, err)
		_, _ = fw.Write(content)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, r io.Reader) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(r).Decode(&v))
	return v
}

func TestHTTPHandler(t *testing.T) {
	env := newTestEnv(t, stubDetector{})
	h, cleanup := NewHTTPHandler(env.uc)
	defer cleanup()

	rec := get(h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	root := decode[getRootOutput](t, rec.Body)
	require.Equal(t, "running", root.Status)
	require.Equal(t, "YOLOv8", root.Models["objects"])

	rec = get(h, "/app/metrics/api")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = get(h, "/nowhere")
	require.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodOptions, "/analyze/visual/detect-objects", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "http://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSplitCategories(t *testing.T) {
	require.Equal(t, []string{"office", "park", "beach"}, splitCategories([]string{"office, park", " beach ", ""}))
	require.Empty(t, splitCategories(nil))
}
