package services

import (
	"strings"

	"github.com/mileusna/useragent"
)

// Device types recorded on click events
const (
	DeviceTypeMobile  = "mobile"
	DeviceTypeTablet  = "tablet"
	DeviceTypeDesktop = "desktop"
	DeviceTypeUnknown = "unknown"
)

// ParsedUserAgent is the deterministic result of parsing a raw user agent
type ParsedUserAgent struct {
	DeviceType     string
	BrowserName    string
	BrowserVersion string
	OSName         string
	OSVersion      string
	IsBot          bool
}

// ParseUserAgent parses a raw user-agent string. The device type is the first
// true among mobile, tablet, desktop, else unknown.
func ParseUserAgent(raw string) ParsedUserAgent {
	ua := useragent.Parse(raw)

	deviceType := DeviceTypeUnknown
	switch {
	case ua.Mobile:
		deviceType = DeviceTypeMobile
	case ua.Tablet:
		deviceType = DeviceTypeTablet
	case ua.Desktop:
		deviceType = DeviceTypeDesktop
	}

	return ParsedUserAgent{
		DeviceType:     deviceType,
		BrowserName:    ua.Name,
		BrowserVersion: ua.Version,
		OSName:         ua.OS,
		OSVersion:      ua.OSVersion,
		IsBot:          ua.Bot,
	}
}

// ExtractDomain returns the host part of a referrer URL: the scheme prefix is
// stripped and everything before the first '/' is kept. Empty input yields
// empty output.
func ExtractDomain(url string) string {
	if url == "" {
		return ""
	}

	url = strings.TrimPrefix(url, "http://")
	url = strings.TrimPrefix(url, "https://")

	domain, _, _ := strings.Cut(url, "/")
	return domain
}
