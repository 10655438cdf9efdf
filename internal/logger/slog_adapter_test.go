package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newBufferLogger(t *testing.T, level Level, format Format, maskHome bool) (*SlogLogger, *bytes.Buffer) {
	t.Helper()

	buf := &bytes.Buffer{}
	l, err := NewSlogLogger(Config{
		Level:         level,
		Format:        format,
		Outputs:       []OutputConfig{{Type: OutputStdout, Writer: buf}},
		MaskHomePaths: maskHome,
	})
	if err != nil {
		t.Fatalf("NewSlogLogger() error = %v", err)
	}
	t.Cleanup(func() { l.Shutdown() })
	return l, buf
}

func TestSlogLogger_Basic(t *testing.T) {
	l, buf := newBufferLogger(t, LevelDebug, FormatText, false)

	l.Info("moved file", "category", "Images")

	output := buf.String()
	if !strings.Contains(output, "moved file") {
		t.Errorf("log output missing message: %s", output)
	}
	if !strings.Contains(output, "category=Images") {
		t.Errorf("log output missing key-value: %s", output)
	}
}

func TestSlogLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		level     Level
		logFunc   func(*SlogLogger)
		shouldLog bool
	}{
		{"debug at debug level", LevelDebug, func(l *SlogLogger) { l.Debug("msg") }, true},
		{"debug at info level", LevelInfo, func(l *SlogLogger) { l.Debug("msg") }, false},
		{"info at warn level", LevelWarn, func(l *SlogLogger) { l.Info("msg") }, false},
		{"warn at warn level", LevelWarn, func(l *SlogLogger) { l.Warn("msg") }, true},
		{"error at error level", LevelError, func(l *SlogLogger) { l.Error("msg") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, buf := newBufferLogger(t, tt.level, FormatText, false)
			tt.logFunc(l)

			if logged := buf.Len() > 0; logged != tt.shouldLog {
				t.Errorf("logged = %v, want %v (output %q)", logged, tt.shouldLog, buf.String())
			}
		})
	}
}

func TestSlogLogger_JSONFormat(t *testing.T) {
	l, buf := newBufferLogger(t, LevelInfo, FormatJSON, false)

	l.Info("purge finished", "deleted", 3)

	output := buf.String()
	if !strings.Contains(output, `"msg":"purge finished"`) {
		t.Errorf("JSON output missing msg field: %s", output)
	}
	if !strings.Contains(output, `"deleted":3`) {
		t.Errorf("JSON output missing deleted field: %s", output)
	}
}

func TestSlogLogger_With(t *testing.T) {
	l, buf := newBufferLogger(t, LevelInfo, FormatText, false)

	child := l.With("component", "organizer")
	child.Info("message")

	if !strings.Contains(buf.String(), "component=organizer") {
		t.Errorf("child logger output missing context: %s", buf.String())
	}

	// Children do not own writers
	if err := child.Shutdown(); err != nil {
		t.Errorf("child Shutdown() error = %v", err)
	}
	l.Info("after child shutdown")
	if !strings.Contains(buf.String(), "after child shutdown") {
		t.Error("parent stopped logging after child shutdown")
	}
}

func TestSlogLogger_Sanitization(t *testing.T) {
	l, buf := newBufferLogger(t, LevelInfo, FormatText, false)

	l.Info("connecting", "token", "secret123")

	if strings.Contains(buf.String(), "secret123") {
		t.Errorf("log output contains unsanitized token: %s", buf.String())
	}
}

func TestSlogLogger_MaskHomePaths(t *testing.T) {
	l, buf := newBufferLogger(t, LevelInfo, FormatText, true)

	l.Info("moved", "source", "/home/ann/Downloads/a.jpg")

	if strings.Contains(buf.String(), "ann") {
		t.Errorf("home user name leaked: %s", buf.String())
	}
}

func TestSlogLogger_FileOutput(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "pcclean.log")

	l, err := NewSlogLogger(Config{
		Level:  LevelInfo,
		Format: FormatText,
		File: FileConfig{
			Enabled:    true,
			Path:       logPath,
			MaxSizeMB:  1,
			MaxAgeDays: 7,
			MaxBackups: 3,
		},
		Outputs: []OutputConfig{{Type: OutputFile}},
	})
	if err != nil {
		t.Fatalf("NewSlogLogger() error = %v", err)
	}

	l.Info("test file logging")
	if err := l.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "test file logging") {
		t.Errorf("log file missing message: %s", string(content))
	}
}

func TestSlogLogger_FileOutputRequiresPath(t *testing.T) {
	_, err := NewSlogLogger(Config{
		File:    FileConfig{Enabled: true},
		Outputs: []OutputConfig{{Type: OutputFile}},
	})
	if err == nil {
		t.Fatal("expected error for empty log file path")
	}
}

func TestSlogLogger_MultipleOutputs(t *testing.T) {
	buf1 := &bytes.Buffer{}
	buf2 := &bytes.Buffer{}

	l, err := NewSlogLogger(Config{
		Level:  LevelInfo,
		Format: FormatText,
		Outputs: []OutputConfig{
			{Type: OutputStdout, Writer: buf1},
			{Type: OutputStderr, Writer: buf2},
		},
	})
	if err != nil {
		t.Fatalf("NewSlogLogger() error = %v", err)
	}
	defer l.Shutdown()

	l.Info("test multi-output")

	if !strings.Contains(buf1.String(), "test multi-output") {
		t.Errorf("buffer1 missing message")
	}
	if !strings.Contains(buf2.String(), "test multi-output") {
		t.Errorf("buffer2 missing message")
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	if ParseLevel("WARNING") != LevelWarn {
		t.Error("ParseLevel(WARNING) != LevelWarn")
	}
	if ParseLevel("bogus") != LevelInfo {
		t.Error("ParseLevel(bogus) should default to info")
	}
	if ParseFormat("JSON") != FormatJSON {
		t.Error("ParseFormat(JSON) != FormatJSON")
	}
	if ParseFormat("") != FormatText {
		t.Error("ParseFormat(\"\") should default to text")
	}
}
