package acquire

import (
	"fmt"
	"net/url"
)

// DefaultProxies are the proxy bases tried, in order, after the direct fetch.
// The percent-encoded locator is appended to each.
var DefaultProxies = []string{
	"https://api.allorigins.win/raw?url=",
	"https://corsproxy.io/?",
	"https://api.codetabs.com/v1/proxy?quest=",
}

// Strategy is how one attempt reaches the locator.
type Strategy uint8

const (
	Direct Strategy = iota
	ProxyWrapped
)

// Attempt is one candidate retrieval. It only lives for one Fetch call.
type Attempt struct {
	Locator   *url.URL
	Strategy  Strategy
	ProxyBase string // set for ProxyWrapped
	Index     int    // 1-based proxy position, 0 for Direct
}

// URL is the address actually requested.
func (a Attempt) URL() string {
	if a.Strategy == Direct {
		return a.Locator.String()
	}
	return a.ProxyBase + url.QueryEscape(a.Locator.String())
}

func (a Attempt) String() string {
	if a.Strategy == Direct {
		return "direct"
	}
	return fmt.Sprintf("proxy %d", a.Index)
}

// Candidates lists the direct attempt followed by one attempt per proxy, in
// the order given.
func Candidates(locator *url.URL, proxies []string) []Attempt {
	out := make([]Attempt, 0, len(proxies)+1)
	out = append(out, Attempt{Locator: locator, Strategy: Direct})
	for i, p := range proxies {
		out = append(out, Attempt{Locator: locator, Strategy: ProxyWrapped, ProxyBase: p, Index: i + 1})
	}
	return out
}
