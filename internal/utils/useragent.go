package utils

import (
	ua "github.com/mssola/user_agent"
)

// DeviceInfo holds parsed information from a User-Agent string. Used only
// to enrich request logs; the API behaves the same for every device.
type DeviceInfo struct {
	DeviceType string `json:"device_type"` // mobile or desktop
	OS         string `json:"os"`
	Browser    string `json:"browser"`
	IsBot      bool   `json:"is_bot"`
}

// ParseUserAgent parses a User-Agent string and extracts device information
func ParseUserAgent(userAgent string) DeviceInfo {
	if userAgent == "" || userAgent == "Unknown" {
		return DeviceInfo{
			DeviceType: "unknown",
			OS:         "Unknown",
			Browser:    "Unknown",
		}
	}

	parser := ua.New(userAgent)

	info := DeviceInfo{
		DeviceType: "desktop",
		IsBot:      parser.Bot(),
	}
	if parser.Mobile() {
		info.DeviceType = "mobile"
	}

	osInfo := parser.OSInfo()
	info.OS = osInfo.Name
	if osInfo.Version != "" {
		info.OS += " " + osInfo.Version
	}
	if info.OS == "" {
		info.OS = "Unknown"
	}

	browser, version := parser.Browser()
	if browser == "" {
		browser = "Unknown"
	}
	info.Browser = browser
	if version != "" {
		info.Browser += " " + version
	}

	return info
}
