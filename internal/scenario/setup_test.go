package scenario

import (
	"os"
	"testing"

	"tactics-server/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}
