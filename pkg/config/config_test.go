package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Dir   string `yaml:"dir"`
	Limit int    `yaml:"limit"`
}

func (s *sample) Validate() error {
	if s.Limit < 0 {
		return errors.New("limit must not be negative")
	}
	return nil
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadExpandsEnvAndKeepsDefaults(t *testing.T) {
	t.Setenv("MARKIT_TEST_DIR", "/tmp/snips")
	path := writeConfig(t, "dir: ${MARKIT_TEST_DIR}\nlimit: 5\n")

	cfg := sample{Name: "default"}
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Dir != "/tmp/snips" || cfg.Limit != 5 || cfg.Name != "default" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadValidates(t *testing.T) {
	path := writeConfig(t, "limit: -1\n")
	var cfg sample
	err := Load(path, &cfg)
	if err == nil || !strings.Contains(err.Error(), "validation") {
		t.Errorf("err = %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	var cfg sample
	if err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &cfg); err == nil {
		t.Error("expected error")
	}
}

func TestLoadMalformed(t *testing.T) {
	path := writeConfig(t, "limit: [\n")
	var cfg sample
	if err := Load(path, &cfg); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadOptional(t *testing.T) {
	cfg := sample{Name: "default", Limit: 3}
	if err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), &cfg); err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if cfg.Name != "default" || cfg.Limit != 3 {
		t.Errorf("defaults changed: %+v", cfg)
	}

	bad := sample{Limit: -2}
	if err := LoadOptional("", &bad); err == nil {
		t.Error("defaults must still be validated")
	}

	path := writeConfig(t, "name: from-file\n")
	if err := LoadOptional(path, &cfg); err != nil || cfg.Name != "from-file" {
		t.Errorf("existing file: %+v, %v", cfg, err)
	}
}
