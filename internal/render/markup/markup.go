// Package markup flattens the small HTML fragments the board backend puts in
// post titles (tweet text mostly) into plain terminal text.
package markup

import (
	"io"
	"strings"

	nethtml "golang.org/x/net/html"
)

var punctuationFix = strings.NewReplacer(
	" .", ".",
	" ,", ",",
	" ;", ";",
	" :", ":",
	" !", "!",
	" ?", "?",
	" )", ")",
	"( ", "(",
)

// Text returns the visible text of raw with tags dropped, entities decoded and
// whitespace collapsed to single spaces. Line breaks become spaces.
func Text(raw string) string {
	if !strings.ContainsAny(raw, "<&") {
		return normalize(raw)
	}

	var b strings.Builder
	z := nethtml.NewTokenizer(strings.NewReader(raw))
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case nethtml.ErrorToken:
			if z.Err() != io.EOF {
				return normalize(raw)
			}
			return normalize(b.String())
		case nethtml.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case nethtml.StartTagToken, nethtml.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style":
				if tt == nethtml.StartTagToken {
					skip++
				}
			case "br", "p", "div", "li":
				b.WriteByte(' ')
			case "img":
				if alt := attr(z, "alt"); alt != "" {
					b.WriteString(" " + alt + " ")
				}
			}
		case nethtml.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style":
				if skip > 0 {
					skip--
				}
			case "p", "div", "li":
				b.WriteByte(' ')
			}
		}
	}
}

// Wrap breaks text into lines no wider than width runes. Words longer than
// width are split.
func Wrap(text string, width int) []string {
	if width < 1 {
		return []string{text}
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	out := make([]string, 0, 2)
	line := []rune{}
	for _, w := range words {
		word := []rune(w)
		for len(word) > width {
			if len(line) > 0 {
				out = append(out, string(line))
				line = line[:0]
			}
			out = append(out, string(word[:width]))
			word = word[width:]
		}
		if len(word) == 0 {
			continue
		}
		if len(line) == 0 {
			line = append(line, word...)
			continue
		}
		if len(line)+1+len(word) <= width {
			line = append(line, ' ')
			line = append(line, word...)
			continue
		}
		out = append(out, string(line))
		line = append(line[:0:0], word...)
	}
	if len(line) > 0 {
		out = append(out, string(line))
	}
	return out
}

func attr(z *nethtml.Tokenizer, name string) string {
	for {
		key, val, more := z.TagAttr()
		if strings.EqualFold(string(key), name) {
			return strings.TrimSpace(string(val))
		}
		if !more {
			return ""
		}
	}
}

func normalize(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return punctuationFix.Replace(s)
}
