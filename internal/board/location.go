package board

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Location is the board's address: a path plus query parameters. Changes are
// recorded with Push and never trigger a reload.
type Location struct {
	Path    string
	Query   url.Values
	params  []Param
	history []string
}

// Param is one key/value pair of the query string.
type Param struct {
	Key   string
	Value string
}

func ParseLocation(raw string) (*Location, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return &Location{Path: "/", Query: make(url.Values)}, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse location %q: %w", raw, err)
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	return &Location{Path: path, Query: u.Query(), params: parseParams(u.RawQuery)}, nil
}

func parseParams(rawQuery string) []Param {
	var out []Param
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			continue
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			continue
		}
		out = append(out, Param{Key: key, Value: value})
	}
	return out
}

func (l *Location) String() string {
	if len(l.Query) == 0 {
		return l.Path
	}
	return l.Path + "?" + l.Query.Encode()
}

func (l *Location) Has(key string) bool {
	_, ok := l.Query[key]
	return ok
}

// Params returns the query pairs in the order they were parsed. Locations
// built without ParseLocation fall back to sorted keys.
func (l *Location) Params() []Param {
	if l.params != nil {
		return append([]Param(nil), l.params...)
	}
	keys := make([]string, 0, len(l.Query))
	for k := range l.Query {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Param, 0, len(keys))
	for _, k := range keys {
		for _, v := range l.Query[k] {
			out = append(out, Param{Key: k, Value: v})
		}
	}
	return out
}

// Push records the current address as a new history entry.
func (l *Location) Push() {
	l.history = append(l.history, l.String())
}

func (l *Location) History() []string {
	return append([]string(nil), l.history...)
}
