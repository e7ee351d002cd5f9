package cli

import (
	"testing"

	"github.com/ardnew/arsla/log"
)

func TestLogConfigScan(t *testing.T) {
	defer log.SetDefault(log.Default())

	tests := []struct {
		name   string
		args   []string
		level  logLevel
		format logFormat
		pretty bool
		caller bool
	}{
		{"none", []string{"-e", "1"}, "", "", true, false},
		{"separate_values", []string{"--log-level", "debug", "--log-format", "json"}, "debug", "json", true, false},
		{"assigned_values", []string{"run", "--log-level=trace", "--log-format=text"}, "trace", "text", true, false},
		{"negated_bools", []string{"--no-log-pretty", "--log-caller"}, "", "", false, true},
		{"assigned_bools", []string{"--log-pretty=false", "--no-log-caller=false"}, "", "", false, true},
		{"flag_not_value", []string{"--log-level", "--log-caller"}, "", "", true, true},
		{"after_terminator", []string{"--", "--log-level=debug"}, "", "", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := logConfig{Pretty: true}
			f.scan(tt.args)

			if f.Level != tt.level {
				t.Errorf("got level %q want %q", f.Level, tt.level)
			}

			if f.Format != tt.format {
				t.Errorf("got format %q want %q", f.Format, tt.format)
			}

			if f.Pretty != tt.pretty {
				t.Errorf("got pretty %v want %v", f.Pretty, tt.pretty)
			}

			if f.Caller != tt.caller {
				t.Errorf("got caller %v want %v", f.Caller, tt.caller)
			}
		})
	}
}

func TestLogConfigVars(t *testing.T) {
	var f logConfig

	vars := f.vars()

	if vars["logLevel"] != "warn" || vars["logFormat"] != "text" {
		t.Errorf("got defaults %q/%q want warn/text", vars["logLevel"], vars["logFormat"])
	}

	if vars["logLevelEnum"] != "trace,debug,info,warn,error" {
		t.Errorf("got level enum %q", vars["logLevelEnum"])
	}
}
