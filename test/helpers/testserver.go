package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"teamchat/database"
	"teamchat/internal/app"
	"teamchat/internal/config"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB
	Config *config.Config
	cancel context.CancelFunc
}

// NewTestServer boots the full router against a private in-memory sqlite database.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	cfg := config.Default()
	cfg.Server.Env = "test"
	cfg.Server.PublicURL = ""
	cfg.Server.CORSOrigins = nil
	cfg.JWT.Secret = "test-secret-for-integration"
	cfg.Storage.BasePath = t.TempDir()
	cfg.Upload.AllowedTypes = []string{"image/png", "text/plain"}
	cfg.Upload.ThumbnailWidth = 0
	cfg.RateLimit.RPS = 1000
	cfg.RateLimit.Burst = 1000

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	router, err := app.SetupRouter(ctx, cfg, db)
	if err != nil {
		cancel()
		t.Fatalf("set up router: %v", err)
	}

	ts := &TestServer{
		Server: httptest.NewServer(router),
		DB:     db,
		Config: cfg,
		cancel: cancel,
	}
	t.Cleanup(ts.Close)
	return ts
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	ts.cancel()
	if sqlDB, err := ts.DB.DB(); err == nil {
		sqlDB.Close()
	}
}

// SendRequest sends a JSON request and returns the response with its body read.
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	contentType := ""
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
		contentType = "application/json"
	}
	return ts.SendRaw(t, method, path, token, contentType, reqBody)
}

// SendRaw sends body as-is with the given content type.
func (ts *TestServer) SendRaw(t *testing.T, method, path, token, contentType string, body io.Reader) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequest(method, ts.Server.URL+path, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("send request: %v", err)
	}
	defer res.Body.Close()

	resBodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	return res, string(resBodyBytes)
}
