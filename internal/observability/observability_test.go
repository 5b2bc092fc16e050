package observability

import (
	"context"
	"testing"

	"github.com/mindless-league/standings/internal/config"
	"github.com/mindless-league/standings/internal/platform/logging"
)

func TestInitUptrace_DisabledIsNoop(t *testing.T) {
	for _, cfg := range []config.Config{
		{UptraceEnabled: false},
		{UptraceEnabled: true, UptraceDSN: "   "},
	} {
		shutdown, err := InitUptrace(cfg, logging.NewNop())
		if err != nil {
			t.Fatalf("InitUptrace error: %v", err)
		}
		if err := shutdown(context.Background()); err != nil {
			t.Fatalf("shutdown error: %v", err)
		}
	}
}

func TestInitPyroscope_DisabledIsNoop(t *testing.T) {
	stop, err := InitPyroscope(config.Config{PyroscopeEnabled: false}, logging.NewNop())
	if err != nil {
		t.Fatalf("InitPyroscope error: %v", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("stop error: %v", err)
	}
}
