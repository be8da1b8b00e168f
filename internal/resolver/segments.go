package resolver

import "strings"

// Segments flattens route parameter values, which may arrive as a list of
// segments or as slash-joined strings, into an ordered list of non-empty
// segments. Absent or empty input yields an empty, non-nil slice. Values are
// not unescaped; the router has already decoded them.
func Segments(parts ...string) []string {
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		for _, s := range strings.Split(p, "/") {
			if s != "" {
				segs = append(segs, s)
			}
		}
	}
	return segs
}
