package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/op/go-logging"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerTo(&buf, logging.WARNING)
	defer InitLogger(logging.INFO)

	Info("hidden")
	Debugf("hidden %d", 1)
	Warningf("shown %s", "warning")
	Error("shown error")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("messages below WARNING were logged: %q", out)
	}
	for _, want := range []string{"WARN - shown warning", "ERRO - shown error"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want logging.Level
	}{
		{"debug", logging.DEBUG},
		{"WARNING", logging.WARNING},
		{"error", logging.ERROR},
		{"", logging.INFO},
		{"verbose", logging.INFO},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.name); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
