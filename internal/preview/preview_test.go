package preview

import (
	"errors"
	"strings"
	"testing"
)

const script = "#!/bin/bash\nset -e\ngit checkout main\necho 'done'\n"

func TestThemePreferenceFromString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want ThemePreference
	}{
		{raw: "dark", want: ThemeDark},
		{raw: " Light ", want: ThemeLight},
		{raw: "auto", want: ThemeAuto},
		{raw: "", want: ThemeAuto},
		{raw: "purple", want: ThemeAuto},
	}
	for _, tt := range tests {
		if got := ThemePreferenceFromString(tt.raw); got != tt.want {
			t.Fatalf("ThemePreferenceFromString(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

// Tests below swap detectDarkMode and must not run in parallel.
func TestStyleName(t *testing.T) {
	orig := detectDarkMode
	t.Cleanup(func() { detectDarkMode = orig })

	detectDarkMode = func() (bool, error) { return true, nil }
	if got := ThemeAuto.StyleName(); got != "github-dark" {
		t.Fatalf("auto on dark desktop = %q", got)
	}
	if got := ThemeLight.StyleName(); got != "github" {
		t.Fatalf("light = %q", got)
	}

	detectDarkMode = func() (bool, error) { return false, errors.New("no portal") }
	if got := ThemeAuto.StyleName(); got != "github" {
		t.Fatalf("auto with failing detection = %q", got)
	}
	if got := ThemeDark.StyleName(); got != "github-dark" {
		t.Fatalf("dark = %q", got)
	}
}

func TestPrint_Plain(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	if err := Print(&b, script, false, ThemeLight); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if b.String() != script {
		t.Fatalf("plain output changed the script: %q", b.String())
	}
}

func TestHighlight(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	if err := Highlight(&b, script, "github"); err != nil {
		t.Fatalf("Highlight: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "\x1b[") {
		t.Fatalf("expected ANSI escapes, got %q", out)
	}
	for _, word := range []string{"checkout", "main", "set"} {
		if !strings.Contains(out, word) {
			t.Fatalf("highlighted output lost %q: %q", word, out)
		}
	}
}

func TestHighlight_UnknownStyleFallsBack(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	if err := Highlight(&b, script, "no-such-style"); err != nil {
		t.Fatalf("Highlight: %v", err)
	}
	if !strings.Contains(b.String(), "checkout") {
		t.Fatalf("unexpected output %q", b.String())
	}
}
