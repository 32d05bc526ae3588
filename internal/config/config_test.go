package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Model != "pendulum" || cfg.Method != "merson" {
		t.Errorf("defaults = %s/%s", cfg.Model, cfg.Method)
	}
	if cfg.Accuracy != DefaultAccuracy {
		t.Errorf("Accuracy = %v", cfg.Accuracy)
	}
	if cfg.ConstraintTol != DefaultConstraintTol {
		t.Errorf("ConstraintTol = %v", cfg.ConstraintTol)
	}
	if cfg.MinStep != DefaultMinStep {
		t.Errorf("MinStep = %v", cfg.MinStep)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model = "oscillator"
	cfg.Accuracy = 1e-6
	cfg.ProjectEveryStep = true
	cfg.InitState.Omega = 0.25

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("roundtrip mismatch:\ngot  %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("model: decay\naccuracy: 1e-6\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model != "decay" || cfg.Accuracy != 1e-6 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Duration != DefaultDuration || cfg.ReportInterval != DefaultReportInterval {
		t.Errorf("unset fields lost their defaults: %+v", cfg)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
