package tracker

import (
	"strings"

	"github.com/bossbooker/portal/internal/store"
)

// ParseUserAgent extracts coarse device hints from a User-Agent string.
// Detection order matters: Edge ships "Chrome" in its UA, Chrome ships
// "Safari".
func ParseUserAgent(ua string) store.DeviceHints {
	lower := strings.ToLower(ua)

	device := "desktop"
	if strings.Contains(lower, "mobile") {
		device = "mobile"
	} else if strings.Contains(lower, "tablet") || strings.Contains(lower, "ipad") {
		device = "tablet"
	}

	browser := "unknown"
	switch {
	case strings.Contains(lower, "firefox"):
		browser = "Firefox"
	case strings.Contains(lower, "edg"):
		browser = "Edge"
	case strings.Contains(lower, "chrome"):
		browser = "Chrome"
	case strings.Contains(lower, "safari"):
		browser = "Safari"
	case strings.Contains(lower, "msie"), strings.Contains(lower, "trident"):
		browser = "IE"
	}

	os := "unknown"
	switch {
	case strings.Contains(lower, "windows"):
		os = "Windows"
	case strings.Contains(lower, "macintosh"), strings.Contains(lower, "mac os"):
		os = "macOS"
	case strings.Contains(lower, "android"):
		os = "Android"
	case strings.Contains(lower, "iphone"), strings.Contains(lower, "ipad"), strings.Contains(lower, "ipod"):
		os = "iOS"
	case strings.Contains(lower, "linux"):
		os = "Linux"
	}

	return store.DeviceHints{Device: device, Browser: browser, OS: os}
}
