package textutil

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses whitespace", "  Hello \n\t world  ", "Hello world"},
		{"composes accents", "Cafe\u0301 au lait", "Caf\u00e9 au lait"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	got, cut := Truncate("héllo wörld", 5)
	if got != "héllo" || !cut {
		t.Fatalf("Truncate = %q, %v", got, cut)
	}
	got, cut = Truncate("short", 30)
	if got != "short" || cut {
		t.Fatalf("Truncate = %q, %v", got, cut)
	}
	if Length("héllo") != 5 {
		t.Fatalf("Length counts bytes")
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"A/B: The Story?", "A-B- The Story"},
		{"  spaced   out  ", "spaced out"},
		{"???", "summary"},
		{"..", "summary"},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.in); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
