// Package resolver maps inbound stream paths to upstream CDN URLs and the
// outbound header profile each CDN expects.
package resolver

import (
	"stream-proxy-go/internal/model"
)

// Resolver applies an ordered rule table to decomposed paths. It holds no
// mutable state and is safe for concurrent use.
type Resolver struct {
	rules     []Rule
	userAgent string
}

// New creates a Resolver over the default provider table.
func New(userAgent string) *Resolver {
	return NewWithRules(DefaultRules(), userAgent)
}

// NewWithRules creates a Resolver over rules. A catch-all rule is appended
// when the table does not already end with one.
func NewWithRules(rules []Rule, userAgent string) *Resolver {
	table := make([]Rule, len(rules), len(rules)+1)
	copy(table, rules)
	if len(table) == 0 || !table[len(table)-1].Match(nil) {
		defaults := DefaultRules()
		table = append(table, defaults[len(defaults)-1])
	}
	return &Resolver{rules: table, userAgent: userAgent}
}

// Resolve returns the upstream target for segs. The first matching rule
// wins; rawQuery is only carried by rules that forward it.
func (r *Resolver) Resolve(segs []string, rawQuery string) model.ResolvedTarget {
	rule := r.match(segs)
	profile := rule.Profile(segs)
	return model.ResolvedTarget{
		Provider:    rule.Name,
		Profile:     string(profile),
		UpstreamURL: rule.Upstream(segs, rawQuery),
		Header:      BuildHeaders(profile, r.userAgent),
	}
}

// RuleNames lists the rule names in evaluation order.
func (r *Resolver) RuleNames() []string {
	names := make([]string, len(r.rules))
	for i, rule := range r.rules {
		names[i] = rule.Name
	}
	return names
}

func (r *Resolver) match(segs []string) Rule {
	for _, rule := range r.rules {
		if rule.Match(segs) {
			return rule
		}
	}
	// Unreachable: the table always ends with a catch-all.
	return r.rules[len(r.rules)-1]
}
