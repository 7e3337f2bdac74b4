package release

import "testing"

func TestReleaseLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rel  Release
		want string
	}{
		{rel: Release{ID: "42"}, want: "42"},
		{rel: Release{ID: "v1", Name: "v1"}, want: "v1"},
		{rel: Release{ID: "42", Name: "Sprint 7"}, want: "Sprint 7 (42)"},
	}
	for _, tt := range tests {
		if got := tt.rel.Label(); got != tt.want {
			t.Fatalf("Label(%+v) = %q, want %q", tt.rel, got, tt.want)
		}
	}
}
