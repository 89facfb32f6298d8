package config

import (
	"testing"
)

func TestNormalizeDirArg(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no trailing slash", "/srv/videos/abc123", "/srv/videos/abc123"},
		{"single trailing slash", "/srv/videos/abc123/", "/srv/videos/abc123"},
		{"multiple trailing slashes", "/srv/videos/abc123///", "/srv/videos/abc123"},
		{"root path", "/", "/"},
		{"relative path", "out", "out"},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDirArg(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeDirArg(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidate_Mode(t *testing.T) {
	tests := []struct {
		name    string
		mode    Mode
		wantErr bool
	}{
		{"single is valid", ModeSingle, false},
		{"abr is valid", ModeABR, false},
		{"empty is invalid", "", true},
		{"unknown is invalid", "dash", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.CheckOnly = true // skip path requirement
			cfg.Mode = tt.mode
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_RequiresPaths(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail without positional paths")
	}

	cfg.InputPath = "/media/in.mp4"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail without an output dir")
	}

	cfg.OutputDir = "/srv/videos/abc123"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil with both paths set", err)
	}
}

func TestValidate_CheckOnlySkipsPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CheckOnly = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil in check-only mode", err)
	}
}

func TestDefaultConfig_SegmentContract(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.SegmentSeconds != 2.0 {
		t.Errorf("SegmentSeconds = %v, want 2.0", cfg.SegmentSeconds)
	}
	if cfg.AudioCodec != "aac" || cfg.AudioBitrate != "128k" {
		t.Errorf("audio defaults = %s@%s, want aac@128k", cfg.AudioCodec, cfg.AudioBitrate)
	}
	if cfg.Mode != ModeSingle {
		t.Errorf("Mode = %q, want single", cfg.Mode)
	}
}
