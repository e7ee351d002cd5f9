package log

import (
	"slices"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{" TRACE ", LevelTrace},
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"info+2", Level(2)},
		{"bogus", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("got %v want %v", got, tt.want)
			}
		})
	}
}

func TestLevel_String(t *testing.T) {
	got := slices.Collect(Levels())
	want := []string{"trace", "debug", "info", "warn", "error"}

	if !slices.Equal(got, want) {
		t.Errorf("got %v want %v", got, want)
	}

	if got := Level(2).String(); got != "info+2" {
		t.Errorf("got %q want %q", got, "info+2")
	}

	for _, name := range want {
		if got := ParseLevel(name).String(); got != name {
			t.Errorf("round trip %q: got %q", name, got)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{" JSON", FormatJSON},
		{"text", FormatText},
		{"yaml", DefaultFormat},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseFormat(tt.in); got != tt.want {
				t.Errorf("got %v want %v", got, tt.want)
			}
		})
	}

	if got := slices.Collect(Formats()); !slices.Equal(got, []string{"text", "json"}) {
		t.Errorf("got %v", got)
	}
}

func TestFormatTime(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 6, 7_000_000, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2024-03-09T14:05:06Z"},
		{"rfc-3339", "2024-03-09T14:05:06Z"},
		{"Kitchen", "2:05PM"},
		{"ms", "Mar  9 14:05:06.007"},
		{"DateTime", "2024-03-09 14:05:06"},
		{"2006/01/02", "2024/03/09"},
		{"none", ""},
		{"", ""},
		{"  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			if got := makeFormatTimeFunc(tt.layout)(at); got != tt.want {
				t.Errorf("got %q want %q", got, tt.want)
			}
		})
	}
}

func TestOptions_ApplyInOrder(t *testing.T) {
	c := makeConfig(nil,
		WithLevel(LevelDebug),
		WithFormat(FormatJSON),
		nil,
		WithLevel(LevelError),
		WithCaller(true),
		WithPretty(false))

	if c.level != LevelError || c.format != FormatJSON || !c.caller || c.pretty {
		t.Errorf("got %+v", c)
	}

	if c.output == nil {
		t.Error("nil writer was not replaced")
	}
}
