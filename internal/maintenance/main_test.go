package maintenance

import (
	"os"
	"testing"

	"relaybot/internal/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(nil); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}
