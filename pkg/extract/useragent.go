package extract

import (
	ua "github.com/mileusna/useragent"
)

// UserAgentInfo is the decoded form of a User-Agent header. Raw is always
// set; the classified fields are empty when the parser did not recognize the
// string.
type UserAgentInfo struct {
	Raw            string `json:"raw"`
	Browser        string `json:"browser,omitempty"`
	BrowserVersion string `json:"browserVersion,omitempty"`
	OS             string `json:"os,omitempty"`
	OSVersion      string `json:"osVersion,omitempty"`
	Device         string `json:"device,omitempty"`
	Mobile         bool   `json:"mobile,omitempty"`
	Tablet         bool   `json:"tablet,omitempty"`
	Desktop        bool   `json:"desktop,omitempty"`
	Bot            bool   `json:"bot,omitempty"`
}

// UserAgent classifies a raw User-Agent string into browser, OS, and device
// fields. recognized reports whether the parser identified anything beyond
// the raw string; callers should route unrecognized strings to the
// self-diagnostics channel rather than failing.
func UserAgent(raw string) (info UserAgentInfo, recognized bool) {
	info = UserAgentInfo{Raw: raw}
	if raw == "" {
		return info, false
	}
	parsed := ua.Parse(raw)
	info.Browser = parsed.Name
	info.BrowserVersion = parsed.Version
	info.OS = parsed.OS
	info.OSVersion = parsed.OSVersion
	info.Device = parsed.Device
	info.Mobile = parsed.Mobile
	info.Tablet = parsed.Tablet
	info.Desktop = parsed.Desktop
	info.Bot = parsed.Bot
	return info, parsed.Name != "" || parsed.OS != "" || parsed.Bot
}
