package clipboard

import (
	"errors"
	"os/exec"
	"testing"
)

func fakeLookPath(installed ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, n := range installed {
			if n == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", exec.ErrNotFound
	}
}

func TestCommand(t *testing.T) {
	tests := []struct {
		name      string
		goos      string
		installed []string
		want      string
		wantErr   bool
	}{
		{"macOS", "darwin", []string{"pbcopy"}, "pbcopy", false},
		{"wayland preferred", "linux", []string{"xclip", "wl-copy"}, "wl-copy", false},
		{"xclip", "linux", []string{"xclip", "xsel"}, "xclip", false},
		{"xsel fallback", "linux", []string{"xsel"}, "xsel", false},
		{"nothing installed", "linux", nil, "", true},
		{"unsupported platform", "windows", []string{"pbcopy"}, "", true},
	}

	orig := lookPath
	defer func() { lookPath = orig }()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookPath = fakeLookPath(tt.installed...)
			args, err := command(tt.goos)
			if (err != nil) != tt.wantErr {
				t.Fatalf("command(%s) error = %v, wantErr %v", tt.goos, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrUnavailable) {
					t.Errorf("error %v should wrap ErrUnavailable", err)
				}
				return
			}
			if args[0] != tt.want {
				t.Errorf("command(%s) = %v, want %s", tt.goos, args, tt.want)
			}
		})
	}
}

func TestCopy(t *testing.T) {
	if !IsAvailable() {
		t.Skip("clipboard not available on this system")
	}
	if err := Copy("東京は日本の首都である。"); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
}
