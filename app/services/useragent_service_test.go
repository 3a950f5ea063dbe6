package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	chromeDesktopUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	iphoneUA        = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	ipadUA          = "Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1"
	googlebotUA     = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
)

func TestParseUserAgent(t *testing.T) {
	t.Run("Desktop", func(t *testing.T) {
		parsed := ParseUserAgent(chromeDesktopUA)
		assert.Equal(t, DeviceTypeDesktop, parsed.DeviceType)
		assert.Equal(t, "Chrome", parsed.BrowserName)
		assert.NotEmpty(t, parsed.BrowserVersion)
		assert.Equal(t, "Windows", parsed.OSName)
		assert.False(t, parsed.IsBot)
	})

	t.Run("Mobile", func(t *testing.T) {
		parsed := ParseUserAgent(iphoneUA)
		assert.Equal(t, DeviceTypeMobile, parsed.DeviceType)
	})

	t.Run("Tablet", func(t *testing.T) {
		parsed := ParseUserAgent(ipadUA)
		assert.Equal(t, DeviceTypeTablet, parsed.DeviceType)
	})

	t.Run("Bot", func(t *testing.T) {
		parsed := ParseUserAgent(googlebotUA)
		assert.True(t, parsed.IsBot)
	})

	t.Run("UnknownOnEmptyInput", func(t *testing.T) {
		parsed := ParseUserAgent("")
		assert.Equal(t, DeviceTypeUnknown, parsed.DeviceType)
		assert.False(t, parsed.IsBot)
	})

	t.Run("Pure", func(t *testing.T) {
		first := ParseUserAgent(chromeDesktopUA)
		second := ParseUserAgent(chromeDesktopUA)
		assert.Equal(t, first, second)
	})
}

func TestExtractDomain(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"Empty", "", ""},
		{"HTTPS", "https://news.ycombinator.com/item?id=1", "news.ycombinator.com"},
		{"HTTP", "http://example.com/path", "example.com"},
		{"NoScheme", "example.com/path/deep", "example.com"},
		{"HostOnly", "https://example.com", "example.com"},
		{"WithPort", "https://example.com:8080/x", "example.com:8080"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractDomain(tc.input))
		})
	}
}
