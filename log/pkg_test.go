package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestPackage_UsesDefaultLogger(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	var buf bytes.Buffer

	SetDefault(Make(&buf, WithLevel(LevelDebug), WithFormat(FormatJSON), WithPretty(false)))

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
	}{
		{"Debug", Debug, "DEBUG"},
		{"Info", Info, "INFO"},
		{"Warn", Warn, "WARN"},
		{"Error", Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn("message", slog.String("key", "value"))

			got := buf.String()
			for _, want := range []string{`"level":"` + tt.level + `"`, `"msg":"message"`, `"key":"value"`} {
				if !strings.Contains(got, want) {
					t.Errorf("got %s want substring %s", got, want)
				}
			}
		})
	}
}

func TestConfig_WrapsDefault(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	var buf bytes.Buffer

	SetDefault(Make(&buf, WithLevel(LevelError)))
	Config(WithLevel(LevelInfo), WithPretty(false))

	Info("visible")

	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("got %q", buf.String())
	}

	if got := Default().Level(); got != LevelInfo {
		t.Errorf("got %v want %v", got, LevelInfo)
	}
}
