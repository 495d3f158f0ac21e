package youtube

import "testing"

func TestIsConsentPage(t *testing.T) {
	tests := []struct {
		name     string
		finalURL string
		body     string
		want     bool
	}{
		{
			"consent redirect",
			"https://consent.youtube.com/m?continue=https%3A%2F%2Fwww.youtube.com%2F",
			"",
			true,
		},
		{
			"google consent redirect",
			"https://consent.google.com/ml?continue=x",
			"",
			true,
		},
		{
			"consent form without redirect",
			"https://www.youtube.com/@chan/videos",
			`<form action="https://consent.youtube.com/s" method="POST">`,
			true,
		},
		{
			"regular page",
			"https://www.youtube.com/@chan/videos",
			"<html><script>var ytInitialData = {};</script></html>",
			false,
		},
		{
			"mere mention in content",
			"https://www.youtube.com/watch?v=abc",
			"read about consent.youtube.com here",
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConsentPage(tt.finalURL, []byte(tt.body)); got != tt.want {
				t.Errorf("isConsentPage(%q, ...) = %v, want %v", tt.finalURL, got, tt.want)
			}
		})
	}
}

func TestAcceptLanguage(t *testing.T) {
	tests := []struct {
		lang string
		want string
	}{
		{"", "en-US,en;q=0.9"},
		{"en", "en-US,en;q=0.9"},
		{"de", "de,de;q=0.9,en;q=0.5"},
	}
	for _, tt := range tests {
		if got := acceptLanguage(tt.lang); got != tt.want {
			t.Errorf("acceptLanguage(%q) = %q, want %q", tt.lang, got, tt.want)
		}
	}
}
