package resolver

import "net/http"

// Profile names an outbound header profile.
type Profile string

// Header profiles, one per upstream anti-hotlinking policy.
const (
	ProfileHotstar Profile = "hotstar"
	ProfileBBC     Profile = "bbc"
	ProfileFancode Profile = "fancode"
	ProfileDAI     Profile = "dai"
	ProfileSony    Profile = "sony"
	ProfileGoogle  Profile = "google"
)

// DefaultUserAgent is sent upstream unless overridden in config.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// baseHeaders are applied to every profile before its overrides.
var baseHeaders = [][2]string{
	{"Accept", "*/*"},
	{"Accept-Language", "en-US,en;q=0.9"},
	{"Accept-Encoding", "gzip, deflate, br"},
	{"Connection", "keep-alive"},
	{"Sec-Fetch-Dest", "empty"},
	{"Sec-Fetch-Mode", "cors"},
	{"Sec-Fetch-Site", "cross-site"},
}

type override struct {
	referer string
	origin  string
	extra   [][2]string
}

var overrides = map[Profile]override{
	ProfileHotstar: {
		referer: "https://www.hotstar.com/",
		origin:  "https://www.hotstar.com",
	},
	ProfileBBC: {
		referer: "https://www.bbc.com/",
		origin:  "https://www.bbc.com",
		extra: [][2]string{
			{"X-Requested-With", "XMLHttpRequest"},
			{"Cache-Control", "no-cache"},
		},
	},
	ProfileFancode: {
		referer: "https://fancode.com/",
		origin:  "https://fancode.com",
	},
	ProfileDAI: {
		referer: "https://www.google.com/",
		origin:  "https://www.google.com",
		extra: [][2]string{
			{"Cache-Control", "no-cache"},
			{"Pragma", "no-cache"},
			{"DNT", "1"},
			// DAI rejects brotli negotiation.
			{"Accept-Encoding", "gzip, deflate"},
		},
	},
	ProfileSony: {
		referer: "https://www.sonyliv.com/",
		origin:  "https://www.sonyliv.com",
		extra: [][2]string{
			{"X-Forwarded-For", "8.8.8.8"},
			{"Cache-Control", "no-cache"},
			{"Accept-Encoding", "gzip, deflate"},
		},
	},
	ProfileGoogle: {
		referer: "https://www.google.com/",
		origin:  "https://www.google.com",
	},
}

// Profiles returns every known profile name.
func Profiles() []Profile {
	return []Profile{ProfileHotstar, ProfileBBC, ProfileFancode, ProfileDAI, ProfileSony, ProfileGoogle}
}

// BuildHeaders returns a fresh header set for p: the base profile with the
// profile's overrides merged over it. Unknown profiles get the base set with
// the FanCode Referer/Origin, matching the catch-all route.
func BuildHeaders(p Profile, userAgent string) http.Header {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	h := make(http.Header, len(baseHeaders)+8)
	h.Set("User-Agent", userAgent)
	for _, kv := range baseHeaders {
		h.Set(kv[0], kv[1])
	}

	o, ok := overrides[p]
	if !ok {
		o = overrides[ProfileFancode]
	}
	h.Set("Referer", o.referer)
	h.Set("Origin", o.origin)
	for _, kv := range o.extra {
		h.Set(kv[0], kv[1])
	}
	return h
}
