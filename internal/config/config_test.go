package config

import (
	"testing"

	"github.com/spf13/viper"
)

func newViper(kv map[string]string) *viper.Viper {
	v := viper.New()
	for k, val := range kv {
		v.Set(k, val)
	}
	return v
}

func TestLoad_RequiresInDir(t *testing.T) {
	_, err := Load(viper.New())
	if err == nil {
		t.Fatal("expected error when --inDir is missing")
	}
}

func TestLoad_DefaultLanguageIsDe(t *testing.T) {
	cfg, err := Load(newViper(map[string]string{"IN_DIR": "/data"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Lang != "de" {
		t.Errorf("Lang = %q, want de", cfg.Lang)
	}
	if cfg.InDir != "/data" {
		t.Errorf("InDir = %q, want /data", cfg.InDir)
	}
}

func TestLoad_RejectsUnknownLanguage(t *testing.T) {
	_, err := Load(newViper(map[string]string{"IN_DIR": "/data", "LANG": "es"}))
	if err == nil {
		t.Fatal("expected error for unsupported language")
	}
}

func TestLoad_AcceptsEachValidLanguage(t *testing.T) {
	for _, lang := range []string{"de", "fr", "it", "en"} {
		cfg, err := Load(newViper(map[string]string{"IN_DIR": "/data", "LANG": lang}))
		if err != nil {
			t.Fatalf("lang %q: unexpected error: %v", lang, err)
		}
		if cfg.Lang != lang {
			t.Errorf("lang %q: got %q", lang, cfg.Lang)
		}
	}
}

func TestConfig_MedicineType(t *testing.T) {
	fi := &Config{Pinfo: false}
	if fi.MedicineType() != "fi" {
		t.Errorf("MedicineType() = %q, want fi", fi.MedicineType())
	}

	pi := &Config{Pinfo: true}
	if pi.MedicineType() != "pi" {
		t.Errorf("MedicineType() = %q, want pi", pi.MedicineType())
	}
}

func TestLoad_InertFlagsDefaultFalse(t *testing.T) {
	cfg, err := Load(newViper(map[string]string{"IN_DIR": "/data"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Pseudo || cfg.Inter || cfg.GLN || cfg.Shop || cfg.Zurrose || cfg.Desitin || cfg.Reports {
		t.Errorf("expected all inert flags to default false, got %+v", cfg)
	}
}
