package regexhl

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "regexhl.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
engine = "regexp2"
match_timeout = "2s"
hues = 6
multiline = true
background = "#202020"
`)
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	want := DefaultRenderConfig()
	want.Engine = "regexp2"
	want.MatchTimeout = 2 * time.Second
	want.Hues = 6
	want.Multiline = true
	want.Background = "#202020"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "colour = \"red\"\n", "unknown keys: colour"},
		{"unknown engine", "engine = \"pcre\"\n", "unknown regex engine"},
		{"bad colour", "foreground = \"black\"\n", "foreground"},
		{"zero hues", "hues = 0\n", "hues must be positive"},
		{"syntax", "engine = \n", "load config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadConfig() error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfig_UnknownEngineSentinel(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "engine = \"pcre\"\n"))
	if !errors.Is(err, ErrUnknownEngine) {
		t.Errorf("LoadConfig() error = %v, want ErrUnknownEngine", err)
	}
}

func TestRenderConfig_SaveRoundTrip(t *testing.T) {
	cfg := DefaultRenderConfig()
	cfg.Engine = "regexp2"
	cfg.Columns = 120
	path := filepath.Join(t.TempDir(), "out.toml")
	if err := cfg.SaveFile(path); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderConfig_SaveWritesKeys(t *testing.T) {
	var buf bytes.Buffer
	if err := DefaultRenderConfig().Save(&buf); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	for _, key := range []string{"engine", "hues", "tab_width", "background"} {
		if !strings.Contains(buf.String(), key) {
			t.Errorf("Save() output lacks %q:\n%s", key, buf.String())
		}
	}
}

func TestDefaultConfig_Singleton(t *testing.T) {
	if DefaultConfig() != DefaultConfig() {
		t.Error("DefaultConfig() returned different instances")
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}
