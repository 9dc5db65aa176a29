package slug

import "testing"

func TestMake(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"simple name", "Write Spec", "write-spec"},
		{"already a slug", "write-spec", "write-spec"},
		{"underscores kept", "test_worker_1", "test_worker_1"},
		{"punctuation dropped", "TeST_22!!", "test_22"},
		{"whitespace runs", "  Fix   the  build ", "fix-the-build"},
		{"hyphen runs", "a---b", "a-b"},
		{"accents folded", "Café Déjà Vu", "cafe-deja-vu"},
		{"mixed separators", "Deploy - v2 / staging", "deploy-v2-staging"},
		{"empty", "", ""},
		{"only punctuation", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Make(tt.source); got != tt.want {
				t.Errorf("Make(%q) = %q, want %q", tt.source, got, tt.want)
			}
		})
	}
}

func TestMakeIsIdempotent(t *testing.T) {
	sources := []string{"Write Spec", "test_worker_1", "Café Déjà Vu", "a---b"}

	for _, source := range sources {
		once := Make(source)
		twice := Make(once)
		if once != twice {
			t.Errorf("Make not idempotent for %q: first %q, second %q", source, once, twice)
		}
	}
}
