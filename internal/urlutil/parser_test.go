package urlutil

import "testing"

func TestValidate(t *testing.T) {
	valid := []string{
		"http://example.com",
		"https://example.com/path",
	}
	for _, u := range valid {
		if err := ValidateURL(u); err != nil {
			t.Fatalf("expected valid, got error: %v", err)
		}
	}

	invalid := []string{"ftp://example.com", "//example.com", "http:///"}
	for _, u := range invalid {
		if err := ValidateURL(u); err == nil {
			t.Fatalf("expected invalid for %s", u)
		}
	}
}

func TestIsURLLike(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"https://example.com/a", true},
		{"  https://example.com \n", true},
		{"", false},
		{"not a url", false},
		{"ftp://example.com", false},
		{"hello https://example.com", false},
	}
	for _, c := range cases {
		if got := IsURLLike(c.in); got != c.want {
			t.Errorf("IsURLLike(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestResolveURL(t *testing.T) {
	if got := ResolveURL("https://archive.ph/abc", "/img/logo.png"); got != "https://archive.ph/img/logo.png" {
		t.Errorf("unexpected resolution: %s", got)
	}
	if got := ResolveURL("https://archive.ph/abc", "https://other.test/x"); got != "https://other.test/x" {
		t.Errorf("absolute URL should pass through, got %s", got)
	}
}
