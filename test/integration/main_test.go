package integration_test

import (
	"os"
	"testing"

	"teamchat/internal/logger"

	"github.com/gin-gonic/gin"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	os.Exit(m.Run())
}

func textBody(text string) map[string]interface{} {
	return map[string]interface{}{
		"ops": []map[string]string{{"insert": text + "\n"}},
	}
}
