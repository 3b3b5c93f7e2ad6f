package validation

import "testing"

func TestValidateRemoteURL(t *testing.T) {
	for raw, want := range map[string]bool{
		"https://example.com/images/x.jpg": true,
		"http://example.com/x.png":         true,
		"ftp://example.com/x.png":          false,
		"example.com/x.png":                false,
		"/uploads/x.png":                   false,
		"":                                 false,
	} {
		if got := ValidateRemoteURL(raw); got != want {
			t.Fatalf("ValidateRemoteURL(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	for raw, want := range map[string]string{
		"photo.png":           "photo.png",
		"  photo.png ":        "photo.png",
		"../../etc/passwd":    "passwd",
		"dir/photo.png":       "photo.png",
		"dir\\photo.png":      "photo.png",
		"pho\x00to.png":       "photo.png",
		"C:\\temp\\photo.png": "photo.png",
	} {
		if got := SanitizeFilename(raw); got != want {
			t.Fatalf("SanitizeFilename(%q) = %q, want %q", raw, got, want)
		}
	}
}
