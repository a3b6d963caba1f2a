package utils

import (
	"fmt"
	"strings"

	ua "github.com/mileusna/useragent"
)

// ParseDeviceInfo turns a raw User-Agent header into a short human
// readable label stored on login sessions.
func ParseDeviceInfo(userAgent string) string {
	if userAgent == "" {
		return "Unknown Browser on Unknown OS"
	}

	parsed := ua.Parse(userAgent)

	browser := parsed.Name
	if browser == "" {
		browser = "Unknown Browser"
	}

	osName := parsed.OS
	if osName == "" {
		osName = "Unknown OS"
	}

	device := "Desktop"
	if parsed.Mobile {
		device = "Mobile"
	} else if parsed.Tablet {
		device = "Tablet"
	}

	return strings.TrimSpace(fmt.Sprintf("%s on %s (%s)", browser, osName, device))
}
