package resolver

import (
	"net/url"
	"strings"
)

// Upstream hosts with dedicated rules.
const (
	hotstarHost       = "live12p.hotstar.com"
	fancodeFDLiveHost = "in-mc-fdlive.fancode.com"
	fancodePDLiveHost = "in-mc-pdlive.fancode.com"
	daiHost           = "dai.google.com"
)

// Rule maps a segment pattern to an upstream URL and a header profile.
// Rules are immutable once the table is built.
type Rule struct {
	Name     string
	Match    func(segs []string) bool
	Upstream func(segs []string, rawQuery string) string
	Profile  func(segs []string) Profile
}

// DefaultRules returns the provider table in evaluation order. The last
// rule always matches.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "hotstar",
			Match:    func(s []string) bool { return first(s) == "hotstar" },
			Upstream: func(s []string, _ string) string { return hostURL(hotstarHost, s[1:]) },
			Profile:  fixed(ProfileHotstar),
		},
		{
			// The remaining segments carry the hostname, so a bare "bbc"
			// falls through to the catch-all.
			Name:     "bbc",
			Match:    func(s []string) bool { return first(s) == "bbc" && len(s) > 1 },
			Upstream: func(s []string, _ string) string {
				if len(s) == 2 {
					return (&url.URL{Scheme: "https", Host: s[1]}).String()
				}
				return hostURL(s[1], s[2:])
			},
			Profile:  fixed(ProfileBBC),
		},
		{
			Name:     "fancode-fdlive",
			Match:    func(s []string) bool { return first(s) == "fancode" && len(s) > 1 && s[1] == "fdlive" },
			Upstream: func(s []string, _ string) string { return hostURL(fancodeFDLiveHost, s[2:]) },
			Profile:  fixed(ProfileFancode),
		},
		{
			Name:     "fancode",
			Match:    func(s []string) bool { return first(s) == "fancode" },
			Upstream: func(s []string, _ string) string { return hostURL(fancodePDLiveHost, s[1:]) },
			Profile:  fixed(ProfileFancode),
		},
		{
			Name:  "dai",
			Match: func(s []string) bool { return first(s) == daiHost },
			Upstream: func(s []string, q string) string {
				return withQuery(hostURL(daiHost, s[1:]), q)
			},
			Profile: fixed(ProfileDAI),
		},
		{
			Name:  "hostname",
			Match: func(s []string) bool { return strings.Contains(first(s), ".") },
			Upstream: func(s []string, q string) string {
				return withQuery(hostURL(s[0], s[1:]), q)
			},
			Profile: hostnameProfile,
		},
		{
			Name:     "default",
			Match:    func([]string) bool { return true },
			Upstream: func(s []string, _ string) string { return hostURL(fancodePDLiveHost, s) },
			Profile:  fixed(ProfileFancode),
		},
	}
}

func hostnameProfile(s []string) Profile {
	host := strings.ToLower(s[0])
	if strings.Contains(host, "sony") || strings.Contains(host, "akamaized") {
		return ProfileSony
	}
	return ProfileGoogle
}

func fixed(p Profile) func([]string) Profile {
	return func([]string) Profile { return p }
}

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

// hostURL builds an https URL from decoded path segments. Characters the
// router decoded, such as "?" or "#", are escaped again so they stay in the
// path.
func hostURL(host string, path []string) string {
	u := url.URL{Scheme: "https", Host: host, Path: "/" + strings.Join(path, "/")}
	return u.String()
}

// withQuery appends the inbound query string, which may carry its leading "?".
func withQuery(u, rawQuery string) string {
	rawQuery = strings.TrimPrefix(rawQuery, "?")
	if rawQuery == "" {
		return u
	}
	return u + "?" + rawQuery
}
