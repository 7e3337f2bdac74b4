package backend

import (
	"errors"
	"testing"
)

func TestParseGitVersionOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want gitVersion
		ok   bool
	}{
		{in: "git version 2.47.1\n", want: gitVersion{2, 47, 1}, ok: true},
		{in: "git version 2.39.5 (Apple Git-154)\n", want: gitVersion{2, 39, 5}, ok: true},
		{in: "git version 2.45.2.windows.1\n", want: gitVersion{2, 45, 2}, ok: true},
		{in: "git version 2.30\n", want: gitVersion{2, 30, 0}, ok: true},
		{in: "2.23.0", want: gitVersion{2, 23, 0}, ok: true},
		{in: "git version dev\n"},
		{in: ""},
	}
	for _, tt := range tests {
		got, ok := parseGitVersionOutput(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("parseGitVersionOutput(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestValidateGitVersionOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		tooOld  bool
		wantErr bool
	}{
		{in: "git version 2.23.0"},
		{in: "git version 3.0.0"},
		{in: "git version 2.22.5", tooOld: true, wantErr: true},
		{in: "git version 1.99.9", tooOld: true, wantErr: true},
		{in: "not git", wantErr: true},
	}
	for _, tt := range tests {
		err := validateGitVersionOutput(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("validateGitVersionOutput(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if errors.Is(err, ErrGitTooOld) != tt.tooOld {
			t.Fatalf("validateGitVersionOutput(%q) error = %v, want too old = %v", tt.in, err, tt.tooOld)
		}
	}
}

func TestGitVersionCompare(t *testing.T) {
	t.Parallel()

	if (gitVersion{2, 23, 0}).compare(gitVersion{2, 9, 9}) <= 0 {
		t.Fatal("2.23.0 must be newer than 2.9.9")
	}
	if (gitVersion{2, 23, 1}).compare(gitVersion{2, 23, 1}) != 0 {
		t.Fatal("equal versions must compare equal")
	}
	if got := MinGitVersion(); got != "2.23.0" {
		t.Fatalf("MinGitVersion() = %q", got)
	}
}
