// Package acquire retrieves the markup of a remote page. A locator is tried
// directly first and then through a fixed, ordered list of proxies, each
// attempt bounded by its own deadline. The first attempt that yields a
// decodable text body wins.
package acquire

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

var domainLike = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*\.[a-zA-Z]{2,}`)

// Normalize turns user input into an https URL. Bare domains ("example.com",
// "www.example.com/about") get an https scheme and http is upgraded to
// https unconditionally.
func Normalize(input string) (*url.URL, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return nil, &MalformedLocatorError{Input: input, Cause: errors.New("empty")}
	}

	lower := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(lower, "https://"):
	case strings.HasPrefix(lower, "http://"):
		raw = "https://" + raw[len("http://"):]
	case strings.HasPrefix(lower, "www.") || domainLike.MatchString(raw):
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, &MalformedLocatorError{Input: input, Cause: err}
	}
	if !strings.EqualFold(u.Scheme, "https") {
		return nil, &MalformedLocatorError{Input: input, Cause: errors.New("not an http(s) URL")}
	}
	if u.Host == "" {
		return nil, &MalformedLocatorError{Input: input, Cause: errors.New("missing host")}
	}
	u.Scheme = "https"
	return u, nil
}
