package textutil

import "testing"

func TestSanitizeToken(t *testing.T) {
	tests := map[string]string{
		"Cat Photo": "cat_photo",
		"  ":        "unknown",
		"__x__":     "x",
		"IMG-0042":  "img-0042",
		"café":      "caf",
		"???":       "unknown",
	}
	for in, want := range tests {
		if got := SanitizeToken(in); got != want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLabel(t *testing.T) {
	tests := map[string]string{
		"final_path": "Final Path",
		"ppi":        "Ppi",
		"output-dir": "Output Dir",
		"":           "",
	}
	for in, want := range tests {
		if got := Label(in); got != want {
			t.Errorf("Label(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAcronym(t *testing.T) {
	if got := Acronym(" tiff "); got != "TIFF" {
		t.Fatalf("Acronym = %q", got)
	}
}

func TestTernary(t *testing.T) {
	if Ternary(true, "yes", "no") != "yes" || Ternary(false, 1, 2) != 2 {
		t.Fatal("Ternary picked the wrong branch")
	}
}
