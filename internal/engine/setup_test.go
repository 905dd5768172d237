package engine

import (
	"os"
	"testing"

	"github.com/tos-kamiya/zombie-escape-sub001/pkg/logger"
)

func TestMain(m *testing.M) {
	// Initialize the global logger before running any tests
	logger.Init()

	os.Exit(m.Run())
}
