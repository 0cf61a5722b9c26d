package dispatch

import (
	"net/url"
	"strings"
)

// ComputeMode selects which transports a session may use
type ComputeMode string

const (
	ModeAuto   ComputeMode = "auto"
	ModeDirect ComputeMode = "direct"
	ModeAPI    ComputeMode = "api"
)

// Launch parameter names read from the page query string
const (
	ParamComputeMode = "compute_mode"
	ParamAPIBaseURL  = "api_base_url"
)

// LaunchParams is the resolved session policy. An empty APIBaseURL means none is configured.
type LaunchParams struct {
	Mode       ComputeMode `json:"compute_mode"`
	APIBaseURL string      `json:"api_base_url"`
}

// HasAPI reports whether a remote base URL was resolved
func (p LaunchParams) HasAPI() bool {
	return p.APIBaseURL != ""
}

// ParseComputeMode matches s case-insensitively; anything unknown is auto
func ParseComputeMode(s string) ComputeMode {
	switch m := ComputeMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeAuto, ModeDirect, ModeAPI:
		return m
	}
	return ModeAuto
}

// NormalizeBaseURL trims whitespace and trailing slashes
func NormalizeBaseURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}

// ResolveLaunchParams reads compute_mode and api_base_url
func ResolveLaunchParams(values url.Values) LaunchParams {
	return LaunchParams{
		Mode:       ParseComputeMode(values.Get(ParamComputeMode)),
		APIBaseURL: NormalizeBaseURL(values.Get(ParamAPIBaseURL)),
	}
}

// ParseLaunchQuery resolves a raw query string such as location.search.
// Malformed pairs are skipped.
func ParseLaunchQuery(raw string) LaunchParams {
	values, _ := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if values == nil {
		values = url.Values{}
	}
	return ResolveLaunchParams(values)
}

// Query encodes p back into launch parameters
func (p LaunchParams) Query() url.Values {
	values := url.Values{}
	values.Set(ParamComputeMode, string(p.Mode))
	if p.HasAPI() {
		values.Set(ParamAPIBaseURL, p.APIBaseURL)
	}
	return values
}
