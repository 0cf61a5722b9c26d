package dispatch

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseComputeMode(t *testing.T) {
	tests := []struct {
		in   string
		want ComputeMode
	}{
		{"auto", ModeAuto},
		{"direct", ModeDirect},
		{"api", ModeAPI},
		{"DIRECT", ModeDirect},
		{" Api ", ModeAPI},
		{"bogus", ModeAuto},
		{"", ModeAuto},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseComputeMode(tt.in))
		})
	}
}

func TestResolveLaunchParams(t *testing.T) {
	p := ResolveLaunchParams(url.Values{
		ParamComputeMode: {"bogus"},
		ParamAPIBaseURL:  {"http://x/"},
	})
	assert.Equal(t, ModeAuto, p.Mode)
	assert.Equal(t, "http://x", p.APIBaseURL)
	assert.True(t, p.HasAPI())
}

func TestResolveLaunchParamsWithoutAPI(t *testing.T) {
	assert.False(t, ResolveLaunchParams(url.Values{}).HasAPI())
	assert.False(t, ResolveLaunchParams(url.Values{ParamAPIBaseURL: {"   "}}).HasAPI())
}

func TestParseLaunchQuery(t *testing.T) {
	p := ParseLaunchQuery("?compute_mode=Direct&api_base_url=http%3A%2F%2F127.0.0.1%3A8000%2F")
	assert.Equal(t, ModeDirect, p.Mode)
	assert.Equal(t, "http://127.0.0.1:8000", p.APIBaseURL)

	p = ParseLaunchQuery("%zz&compute_mode=api")
	assert.Equal(t, ModeAPI, p.Mode)
	assert.Empty(t, p.APIBaseURL)
}

func TestLaunchParamsQueryRoundTrip(t *testing.T) {
	p := LaunchParams{Mode: ModeAPI, APIBaseURL: "http://h:1"}
	assert.Equal(t, p, ResolveLaunchParams(p.Query()))

	q := LaunchParams{Mode: ModeDirect}.Query()
	assert.Empty(t, q.Get(ParamAPIBaseURL))
}
