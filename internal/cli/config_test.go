package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/contextprime/contextprime/internal/config"
)

func TestConfigInit_WritesProjectConfig(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", t.TempDir())

	saved := projectDir
	projectDir = tmp
	defer func() { projectDir = saved }()

	if err := runConfigInit(configInitCmd, nil); err != nil {
		t.Fatalf("runConfigInit: %v", err)
	}

	path := config.ProjectConfigPath(tmp)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written config: %v", err)
	}
	for _, want := range []string{"model:", "budget:", "threshold:"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("written config missing %q", want)
		}
	}
}

func TestConfigInit_RefusesExistingFile(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", t.TempDir())

	saved := projectDir
	projectDir = tmp
	defer func() { projectDir = saved }()

	if err := runConfigInit(configInitCmd, nil); err != nil {
		t.Fatalf("first init: %v", err)
	}
	err := runConfigInit(configInitCmd, nil)
	if err == nil {
		t.Fatal("second init should refuse to overwrite")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("error = %v, want mention of existing file", err)
	}
}

func TestLoadProjectConfig_LayersProjectFile(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", t.TempDir())

	cfgPath := config.ProjectConfigPath(tmp)
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfgPath, []byte("budget:\n  threshold: 0.7\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	saved := projectDir
	projectDir = tmp
	defer func() { projectDir = saved }()

	root, cfg, err := loadProjectConfig()
	if err != nil {
		t.Fatalf("loadProjectConfig: %v", err)
	}
	if root != tmp {
		t.Errorf("root = %q, want %q", root, tmp)
	}
	if cfg.Budget.Threshold != 0.7 {
		t.Errorf("threshold = %v, want project override 0.7", cfg.Budget.Threshold)
	}
}
