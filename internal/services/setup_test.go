package services_test

import (
	"testing"
	"time"

	"teamchat/internal/auth"
	"teamchat/internal/imageprocessor"
	"teamchat/internal/services"
	"teamchat/internal/storage"
	"teamchat/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test_secret_key_for_services"

type fixture struct {
	db        *gorm.DB
	svc       *services.ServiceContainer
	publisher *testutil.RecordingPublisher
	tokens    *auth.TokenManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := storage.NewLocalStorage(storage.Config{
		BasePath: t.TempDir(),
		BaseURL:  "/api/v1/files",
	})
	require.NoError(t, err)

	publisher := &testutil.RecordingPublisher{}
	tokens := auth.NewTokenManager(testSecret)

	svc := services.NewServiceContainer(services.Dependencies{
		Tokens:    tokens,
		Storage:   store,
		Images:    imageprocessor.NewProcessor(80),
		Publisher: publisher,
		Auth:      services.AuthConfig{AccessTTL: time.Hour, RefreshTTL: 24 * time.Hour},
		Upload: services.UploadConfig{
			PublicURL:      "http://localhost:8080",
			MaxFileSize:    1024,
			AllowedTypes:   []string{"image/png", "text/plain"},
			ThumbnailWidth: 64,
		},
	})

	return &fixture{
		db:        testutil.NewDB(t),
		svc:       svc,
		publisher: publisher,
		tokens:    tokens,
	}
}

func strPtr(s string) *string { return &s }
