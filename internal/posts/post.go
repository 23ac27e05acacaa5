package posts

import (
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// Post is a single board entry: a blog post or a bot-submitted tweet.
type Post struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Submitted string    `json:"submitted"`
	Domain    string    `json:"domain"`
	Author    string    `json:"author"`
	Submitter Submitter `json:"submitter"`
}

type Submitter struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Bot   bool   `json:"bot"`
}

// Filter keys accepted by the board.
const (
	KeyDomain = "domain"
	KeyAuthor = "author"
)

// FilterKeys is the allow-list of keys posts can be filtered on.
var FilterKeys = []string{KeyDomain, KeyAuthor}

var submittedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateOnly,
	"Jan 2, 2006",
	"January 2, 2006",
	"Mon Jan 2 2006",
}

// ParseDate accepts the backend timestamp formats as well as the display format
// used by the list.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range submittedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SubmittedAt returns the parsed submission time or the zero time.
func (p Post) SubmittedAt() time.Time {
	t, _ := ParseDate(p.Submitted)
	return t
}

// Host returns the lower-cased URL host, or "" when the URL does not parse.
func (p Post) Host() string {
	u, err := url.Parse(strings.TrimSpace(p.URL))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

func IsFilterKey(key string) bool {
	for _, k := range FilterKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Field reads an allow-listed attribute. Unknown keys yield "" and false.
func Field(p Post, key string) (string, bool) {
	switch key {
	case KeyDomain:
		return p.Domain, true
	case KeyAuthor:
		return p.Author, true
	}
	return "", false
}

// IsTweet reports whether the post came from the tweet feed.
func IsTweet(p Post) bool {
	return p.Submitter.Bot && strings.Contains(p.Host(), "twitter.com")
}

// InMonth reports whether the post was submitted in year and the zero-based
// month index, evaluated in UTC.
func InMonth(p Post, year, monthIndex int) bool {
	t, ok := ParseDate(p.Submitted)
	if !ok {
		return false
	}
	t = t.UTC()
	return t.Year() == year && int(t.Month())-1 == monthIndex
}

// Normalize fills in the domain from the URL when the backend left it empty.
func Normalize(p Post) Post {
	if strings.TrimSpace(p.Domain) != "" {
		return p
	}
	host := strings.TrimPrefix(p.Host(), "www.")
	if host == "" {
		return p
	}
	if domain, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		p.Domain = domain
		return p
	}
	p.Domain = host
	return p
}

// NormalizeAll applies Normalize to every post in place.
func NormalizeAll(list []Post) []Post {
	for i := range list {
		list[i] = Normalize(list[i])
	}
	return list
}
