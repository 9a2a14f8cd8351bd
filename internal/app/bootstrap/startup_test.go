package bootstrap

import (
	"testing"
	"time"

	"github.com/techikansh/Kanban-Board/internal/app/system/timeouts"
	"go.uber.org/zap"
)

func TestApplyTimeouts(t *testing.T) {
	timeouts.Reset()
	t.Cleanup(timeouts.Reset)
	t.Setenv("KANBAN_TIMEOUT_LONG", "45s")

	applyTimeouts(AppConfig{TimeoutShort: 3 * time.Second, TimeoutLong: 20 * time.Second}, zap.NewNop())

	if got := timeouts.Short(); got != 3*time.Second {
		t.Errorf("Short: got %v, want 3s", got)
	}
	if got := timeouts.Medium(); got != timeouts.DefaultMedium {
		t.Errorf("Medium: got %v, want default", got)
	}
	// Environment wins over config keys.
	if got := timeouts.Long(); got != 45*time.Second {
		t.Errorf("Long: got %v, want 45s", got)
	}
}
