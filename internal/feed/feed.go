// Package feed scrapes the third-party live match listing into match cards.
package feed

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Team is one side of a match.
type Team struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// Tournament names the competition a match belongs to.
type Tournament struct {
	Name string `json:"name"`
}

// Match is a live match card as the front end renders it.
type Match struct {
	ID         string     `json:"id"`
	Tournament Tournament `json:"tournament"`
	Sport      string     `json:"sport"`
	Team1      Team       `json:"team1"`
	Team2      Team       `json:"team2"`
	Image      string     `json:"image"`
	Status     string     `json:"status"`
	StreamURL  string     `json:"streamUrl,omitempty"`
}

var (
	titlePattern = regexp.MustCompile(`^(.*?)(?:\s*\((.*)\))?$`)
	vsPattern    = regexp.MustCompile(`\s+(?:vs|VS|Vs)\s+`)
	slugPattern  = regexp.MustCompile(`[^a-z0-9]+`)
)

// Parse extracts every div.match-card from an HTML listing. now seeds ids for
// cards whose title yields an empty slug.
func Parse(r io.Reader, now time.Time) ([]Match, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse feed html: %w", err)
	}

	matches := make([]Match, 0)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if isDivWithClass(n, "match-card") {
			matches = append(matches, parseCard(n, len(matches), now))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return matches, nil
}

func parseCard(card *html.Node, index int, now time.Time) Match {
	image := strings.TrimSpace(attr(find(card, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Img
	}), "src"))
	title := textOr(find(card, divClass("match-title")), "Live Match")
	sport := textOr(find(card, divClass("match-subtitle")), "Cricket")

	main, tournament := title, ""
	if m := titlePattern.FindStringSubmatch(title); m != nil {
		if s := strings.TrimSpace(m[1]); s != "" {
			main = s
		}
		tournament = strings.TrimSpace(m[2])
	}
	if tournament == "" {
		tournament = title
	}

	team1, team2 := main, "TBD"
	if parts := vsPattern.Split(main, -1); len(parts) >= 2 {
		team1 = strings.TrimSpace(parts[0])
		team2 = strings.TrimSpace(strings.Join(parts[1:], " vs "))
	}

	id := strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if id == "" {
		id = fmt.Sprintf("match-%d-%d", now.UnixMilli(), index)
	}

	return Match{
		ID:         id,
		Tournament: Tournament{Name: tournament},
		Sport:      sport,
		Team1:      Team{Code: teamCode(team1), Name: team1},
		Team2:      Team{Code: teamCode(team2), Name: team2},
		Image:      image,
		Status:     "live",
	}
}

// teamCode abbreviates a team name to the initials of its first three words.
func teamCode(name string) string {
	var b strings.Builder
	initials := 0
	for _, w := range strings.Fields(name) {
		if initials == 3 {
			break
		}
		r := []rune(w)
		b.WriteString(strings.ToUpper(string(r[0])))
		initials++
	}
	if initials == 0 {
		return "T1"
	}
	return b.String()
}

func divClass(class string) func(*html.Node) bool {
	return func(n *html.Node) bool { return isDivWithClass(n, class) }
}

func isDivWithClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode || n.DataAtom != atom.Div {
		return false
	}
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// find returns the first descendant of n matching pred, depth first.
func find(n *html.Node, pred func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if pred(c) {
			return c
		}
		if found := find(c, pred); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// textOr returns the element's leading text, or fallback when it is empty.
func textOr(n *html.Node, fallback string) string {
	if n == nil {
		return fallback
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil && c.Type == html.TextNode; c = c.NextSibling {
		b.WriteString(c.Data)
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		return s
	}
	return fallback
}
