package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"planline/internal/config"
)

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Calendar.GridCap != 2 || cfg.Calendar.BirthdayMatch != "day-of-month" {
		t.Fatalf("unexpected defaults: %+v", cfg.Calendar)
	}
	if cfg.Server.BasePath != "/v0" {
		t.Fatalf("unexpected server defaults: %+v", cfg.Server)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	yml := "calendar:\n  timezone: Europe/Paris\n  grid_cap: 4\n"
	if err := os.WriteFile(filepath.Join(dir, "planline.yml"), []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Calendar.Timezone != "Europe/Paris" || cfg.Calendar.GridCap != 4 {
		t.Fatalf("overrides not applied: %+v", cfg.Calendar)
	}
	if cfg.Calendar.BirthdayMatch != "day-of-month" {
		t.Fatalf("unset keys must keep defaults: %+v", cfg.Calendar)
	}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "Europe/Paris" {
		t.Fatalf("location: %v %v", loc, err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	if _, err := config.FromYAML([]byte("calendar:\n  grid_cap: -1\n")); err == nil {
		t.Fatalf("expected grid_cap error")
	}
	if _, err := config.FromYAML([]byte("calendar:\n  birthday_match: sometimes\n")); err == nil {
		t.Fatalf("expected birthday_match error")
	}
	if _, err := config.FromYAML([]byte("calendar:\n  timezone: Mars/Olympus\n")); err == nil {
		t.Fatalf("expected timezone error")
	}
}
