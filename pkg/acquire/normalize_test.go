package acquire

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "example.com", want: "https://example.com"},
		{input: "  www.example.com/about ", want: "https://www.example.com/about"},
		{input: "sub-domain.example.org:8443/x", want: "https://sub-domain.example.org:8443/x"},
		{input: "http://example.com/page?q=1", want: "https://example.com/page?q=1"},
		{input: "https://example.com", want: "https://example.com"},
		{input: "", wantErr: true},
		{input: "just words", wantErr: true},
		{input: "ftp://example.com/file", wantErr: true},
		{input: "https://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if tt.wantErr {
				var malformed *MalformedLocatorError
				require.ErrorAs(t, err, &malformed)
				assert.Equal(t, tt.input, malformed.Input)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestCandidates(t *testing.T) {
	locator, err := url.Parse("https://example.com/a?b=1")
	require.NoError(t, err)

	got := Candidates(locator, DefaultProxies)
	require.Len(t, got, 4)

	assert.Equal(t, Direct, got[0].Strategy)
	assert.Equal(t, "https://example.com/a?b=1", got[0].URL())
	assert.Equal(t, "direct", got[0].String())

	wantURLs := []string{
		"https://api.allorigins.win/raw?url=https%3A%2F%2Fexample.com%2Fa%3Fb%3D1",
		"https://corsproxy.io/?https%3A%2F%2Fexample.com%2Fa%3Fb%3D1",
		"https://api.codetabs.com/v1/proxy?quest=https%3A%2F%2Fexample.com%2Fa%3Fb%3D1",
	}
	for i, want := range wantURLs {
		a := got[i+1]
		assert.Equal(t, ProxyWrapped, a.Strategy)
		assert.Equal(t, i+1, a.Index)
		assert.Equal(t, want, a.URL())
	}
}
