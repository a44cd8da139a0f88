package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVerbosityFilters(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr); SetVerbosity(int(Info)) })

	tests := []struct {
		verbosity Level
		want      []string
		skip      []string
	}{
		{Error, []string{"boom"}, []string{"started", "detail", "fine"}},
		{Info, []string{"boom", "started"}, []string{"detail", "fine"}},
		{Debug, []string{"boom", "started", "detail"}, []string{"fine"}},
		{Trace, []string{"boom", "started", "detail", "fine", "level=TRACE"}, nil},
	}

	for _, tt := range tests {
		buf.Reset()
		SetVerbosity(int(tt.verbosity))
		Errorf("boom")
		Infof("started")
		Debugf("detail")
		Tracef("fine")

		out := buf.String()
		for _, w := range tt.want {
			if !strings.Contains(out, w) {
				t.Fatalf("verbosity %d: expected %q in output, got %q", tt.verbosity, w, out)
			}
		}
		for _, s := range tt.skip {
			if strings.Contains(out, s) {
				t.Fatalf("verbosity %d: did not expect %q in output, got %q", tt.verbosity, s, out)
			}
		}
	}
}

func TestInitFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bsgrid.log")
	if err := Init(Config{Level: Debug, JSON: true, File: path, MaxSizeMB: 1}); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = Init(Config{Level: Info})
	})

	With("component", "test").Info("structured")
	Debugf("value=%d", 42)

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(b)
	if !strings.Contains(out, `"component":"test"`) {
		t.Fatalf("expected structured attribute, got %q", out)
	}
	if !strings.Contains(out, `"msg":"value=42"`) {
		t.Fatalf("expected formatted message, got %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"error": Error, "INFO": Info, "": Info, "debug": Debug, " trace ": Trace} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q): expected %d, got %d (%v)", in, want, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
