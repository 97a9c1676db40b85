package fvpdir

import (
	"path/filepath"
	"testing"
)

func TestPaths(t *testing.T) {
	tests := []struct {
		base       string
		wantDir    string
		wantConfig string
	}{
		{"", ".fvp", filepath.Join(".fvp", "fvp.toml")},
		{".", ".fvp", filepath.Join(".fvp", "fvp.toml")},
		{"/home/me", filepath.Join("/home/me", ".fvp"), filepath.Join("/home/me", ".fvp", "fvp.toml")},
	}
	for _, tt := range tests {
		if got := DirPath(tt.base); got != tt.wantDir {
			t.Errorf("DirPath(%q) = %q, want %q", tt.base, got, tt.wantDir)
		}
		if got := ConfigPath(tt.base); got != tt.wantConfig {
			t.Errorf("ConfigPath(%q) = %q, want %q", tt.base, got, tt.wantConfig)
		}
	}
	if got := SessionsPath("/logs"); got != filepath.Join("/logs", "sessions") {
		t.Errorf("SessionsPath() = %q", got)
	}
}
