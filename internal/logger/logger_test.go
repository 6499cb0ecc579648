package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARNING", slog.LevelWarn},
		{"WARN", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"invalid", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := parseLogLevel(tt.input); result != tt.expected {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig returned error for missing file: %v", err)
	}

	if config.Level != "INFO" {
		t.Errorf("Default level = %q, want %q", config.Level, "INFO")
	}
	if !config.Console() {
		t.Error("Default console output disabled, want enabled")
	}
	if config.FileEnabled {
		t.Error("Default FileEnabled = true, want false")
	}
	if config.FilePath != "logs/dungeon.log" {
		t.Errorf("Default FilePath = %q, want %q", config.FilePath, "logs/dungeon.log")
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logging.yaml")
	yamlContent := `logging:
  level: DEBUG
  console_enabled: false
  console_format: json
  file_enabled: true
  file_path: test.log
  file_max_size_mb: 20
`
	if err := os.WriteFile(path, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if config.Level != "DEBUG" {
		t.Errorf("Level = %q, want %q", config.Level, "DEBUG")
	}
	if config.Console() {
		t.Error("Console() = true, want false")
	}
	if config.ConsoleFormat != "json" {
		t.Errorf("ConsoleFormat = %q, want %q", config.ConsoleFormat, "json")
	}
	if !config.FileEnabled {
		t.Error("FileEnabled = false, want true")
	}
	if config.FilePath != "test.log" {
		t.Errorf("FilePath = %q, want %q", config.FilePath, "test.log")
	}
	if config.FileMaxSizeMB != 20 {
		t.Errorf("FileMaxSizeMB = %d, want %d", config.FileMaxSizeMB, 20)
	}
	if config.FileMaxBackups != 5 {
		t.Errorf("FileMaxBackups = %d, want default 5", config.FileMaxBackups)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logging.yaml")
	if err := os.WriteFile(path, []byte("logging: [unclosed"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig accepted malformed YAML")
	}
}

func TestEnvVarOverride(t *testing.T) {
	t.Setenv("LOG_LEVEL", "ERROR")
	t.Setenv("LOG_CONSOLE_FORMAT", "json")
	t.Setenv("LOG_FILE_ENABLED", "true")
	t.Setenv("LOG_FILE_PATH", "/custom/path.log")

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if config.Level != "ERROR" {
		t.Errorf("Level = %q, want %q (from env var)", config.Level, "ERROR")
	}
	if config.ConsoleFormat != "json" {
		t.Errorf("ConsoleFormat = %q, want %q (from env var)", config.ConsoleFormat, "json")
	}
	if !config.FileEnabled {
		t.Error("FileEnabled = false, want true (from env var)")
	}
	if config.FilePath != "/custom/path.log" {
		t.Errorf("FilePath = %q, want %q (from env var)", config.FilePath, "/custom/path.log")
	}
}

func TestTextOutputRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(newHandler(&buf, "text", slog.LevelInfo)))
	defer SetLogger(nil)

	Info("chunk generated", "seed", "abc")
	Debug("should not appear")

	output := buf.String()
	if !strings.Contains(output, "chunk generated") {
		t.Errorf("Output missing INFO message: %s", output)
	}
	if !strings.Contains(output, "seed=abc") {
		t.Errorf("Output missing structured field: %s", output)
	}
	if strings.Contains(output, "should not appear") {
		t.Errorf("Output contains DEBUG message when level is INFO: %s", output)
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(newHandler(&buf, "json", slog.LevelInfo)))
	defer SetLogger(nil)

	Warning("placement skipped", "container", 3, "type", "boss")

	output := buf.String()
	if !strings.Contains(output, `"msg":"placement skipped"`) {
		t.Errorf("Output missing JSON message field: %s", output)
	}
	if !strings.Contains(output, `"container":3`) {
		t.Errorf("Output missing numeric JSON field: %s", output)
	}
	if !strings.Contains(output, `"level":"WARN"`) {
		t.Errorf("Output missing level: %s", output)
	}
}

func TestFormattedLogging(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(newHandler(&buf, "text", slog.LevelDebug)))
	defer SetLogger(nil)

	Debugf("Debug: %d + %d = %d", 1, 2, 3)
	Infof("Info: %s", "test")
	Warningf("Warning: %.2f%%", 99.95)
	Errorf("Error: %v", "failed")

	output := buf.String()
	for _, want := range []string{"Debug: 1 + 2 = 3", "Info: test", "Warning: 99.95%", "Error: failed"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q: %s", want, output)
		}
	}
}

func TestMultiHandler(t *testing.T) {
	var buf1, buf2 bytes.Buffer

	multi := newMultiHandler(
		newHandler(&buf1, "text", slog.LevelInfo),
		newHandler(&buf2, "text", slog.LevelError),
	)
	SetLogger(slog.New(multi))
	defer SetLogger(nil)

	Info("only first", "field", "value")
	Error("both")

	if !strings.Contains(buf1.String(), "only first") || !strings.Contains(buf1.String(), "field=value") {
		t.Errorf("first handler output = %q", buf1.String())
	}
	if strings.Contains(buf2.String(), "only first") {
		t.Error("second handler received a record below its level")
	}
	if !strings.Contains(buf2.String(), "both") {
		t.Error("second handler missing ERROR record")
	}
}

func TestInitializeWithFile(t *testing.T) {
	disabled := false
	path := filepath.Join(t.TempDir(), "out.log")
	closer, err := Initialize(Config{
		Level:          "DEBUG",
		ConsoleEnabled: &disabled,
		FileEnabled:    true,
		FilePath:       path,
		FileFormat:     "text",
		FileMaxSizeMB:  1,
	})
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer SetLogger(nil)

	Info("to file")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file = %q, want message", data)
	}
}

func TestNilLogger(t *testing.T) {
	SetLogger(nil)

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Logging with nil logger caused panic: %v", r)
		}
	}()

	Debug("debug")
	Info("info")
	Warning("warning")
	Error("error")
}
