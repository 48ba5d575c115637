package config

import (
	"errors"
	"os"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range Keys {
		name := EnvName(k)
		orig, had := os.LookupEnv(name)
		os.Unsetenv(name)
		t.Cleanup(func() {
			if had {
				os.Setenv(name, orig)
			} else {
				os.Unsetenv(name)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	withConfigHome(t)
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, Default())
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	home := withConfigHome(t)
	clearEnv(t)
	writeGlobal(t, home, "addr: \":9000\"\nviewport_width: 1200\nlayout_timeout: 500ms\n")

	os.Setenv("KBM_ADDR", ":7000")
	os.Setenv("KBM_RENDER_BURST", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Addr != ":7000" {
		t.Errorf("Addr = %q, want env value :7000", cfg.Addr)
	}
	if cfg.ViewportWidth != 1200 {
		t.Errorf("ViewportWidth = %d, want 1200", cfg.ViewportWidth)
	}
	if cfg.LayoutTimeout != 500*time.Millisecond {
		t.Errorf("LayoutTimeout = %v, want 500ms", cfg.LayoutTimeout)
	}
	if cfg.RenderBurst != 3 {
		t.Errorf("RenderBurst = %d, want 3", cfg.RenderBurst)
	}
	if cfg.ViewportHeight != DefaultViewportHeight {
		t.Errorf("ViewportHeight = %d, want default", cfg.ViewportHeight)
	}
}

func TestLoad_BadEnv(t *testing.T) {
	withConfigHome(t)
	clearEnv(t)
	os.Setenv("KBM_SEED", "forty-two")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail on a non-numeric KBM_SEED")
	}
}

func TestGetAndValues(t *testing.T) {
	cfg := Default()
	for _, k := range Keys {
		if _, err := cfg.Get(k); err != nil {
			t.Errorf("Get(%q) error = %v", k, err)
		}
	}
	if got, _ := cfg.Get("layout_timeout"); got != "3s" {
		t.Errorf("Get(layout_timeout) = %q, want 3s", got)
	}
	if _, err := cfg.Get("nope"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Get(nope) error = %v, want ErrUnknownKey", err)
	}
	if len(cfg.Values()) != len(Keys) {
		t.Errorf("Values() has %d entries, want %d", len(cfg.Values()), len(Keys))
	}
}

func TestSetGlobalValue(t *testing.T) {
	withConfigHome(t)
	clearEnv(t)

	if err := SetGlobalValue("seed", "99"); err != nil {
		t.Fatalf("SetGlobalValue() error = %v", err)
	}
	if err := SetGlobalValue("log_dev", "true"); err != nil {
		t.Fatalf("SetGlobalValue() error = %v", err)
	}
	ResetGlobalConfigCache()

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Seed != 99 || !cfg.LogDev {
		t.Errorf("after set: Seed=%d LogDev=%v", cfg.Seed, cfg.LogDev)
	}

	if err := SetGlobalValue("viewport_width", "wide"); err == nil {
		t.Error("SetGlobalValue() should reject non-numeric width")
	}
	if err := SetGlobalValue("color", "red"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("SetGlobalValue(color) error = %v, want ErrUnknownKey", err)
	}
}

func TestToUpperSnake(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"corpus_dir", "CORPUS_DIR"},
		{"render-rate", "RENDER_RATE"},
		{"seed", "SEED"},
		{"test123", "TEST123"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := toUpperSnake(tt.input)
			if got != tt.want {
				t.Errorf("toUpperSnake(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEnvName(t *testing.T) {
	if got := EnvName("layout_timeout"); got != "KBM_LAYOUT_TIMEOUT" {
		t.Errorf("EnvName() = %q", got)
	}
}
