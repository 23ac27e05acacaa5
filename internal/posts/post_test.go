package posts

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Time
	}{
		{raw: "2018-03-05T10:00:00Z", want: time.Date(2018, 3, 5, 10, 0, 0, 0, time.UTC)},
		{raw: "2018-03-05", want: time.Date(2018, 3, 5, 0, 0, 0, 0, time.UTC)},
		{raw: "Mar 5, 2018", want: time.Date(2018, 3, 5, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, ok := ParseDate(tc.raw)
		if !ok {
			t.Fatalf("ParseDate(%q) failed", tc.raw)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("ParseDate(%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}
	if _, ok := ParseDate("not a date"); ok {
		t.Fatal("expected failure for garbage input")
	}
}

func TestInMonth_ZeroBasedMonth(t *testing.T) {
	p := Post{Submitted: "2018-03-05T10:00:00Z"}
	if !InMonth(p, 2018, 2) {
		t.Fatal("expected March to be month index 2")
	}
	if InMonth(p, 2018, 3) {
		t.Fatal("did not expect month index 3 to match March")
	}
	if InMonth(p, 2017, 2) {
		t.Fatal("did not expect another year to match")
	}
	if InMonth(Post{Submitted: ""}, 2018, 2) {
		t.Fatal("did not expect undated post to match")
	}
}

func TestIsTweet(t *testing.T) {
	tweet := Post{URL: "https://twitter.com/ChromiumDev/status/1", Submitter: Submitter{Bot: true}}
	if !IsTweet(tweet) {
		t.Fatal("expected bot twitter post to be a tweet")
	}
	human := Post{URL: "https://twitter.com/someone/status/2"}
	if IsTweet(human) {
		t.Fatal("did not expect human-submitted post to be a tweet")
	}
	botBlog := Post{URL: "https://developers.google.com/web", Submitter: Submitter{Bot: true}}
	if IsTweet(botBlog) {
		t.Fatal("did not expect bot post on another host to be a tweet")
	}
}

func TestField_AllowList(t *testing.T) {
	p := Post{Domain: "example.com", Author: "Ada", Title: "t"}
	if v, ok := Field(p, KeyDomain); !ok || v != "example.com" {
		t.Fatalf("unexpected domain field: %q %v", v, ok)
	}
	if v, ok := Field(p, KeyAuthor); !ok || v != "Ada" {
		t.Fatalf("unexpected author field: %q %v", v, ok)
	}
	if _, ok := Field(p, "title"); ok {
		t.Fatal("expected title not to be filterable")
	}
	if IsFilterKey("bogusKey") {
		t.Fatal("expected bogusKey to be rejected")
	}
}

func TestNormalize_DerivesRegistrableDomain(t *testing.T) {
	got := Normalize(Post{URL: "https://www.blog.example.co.uk/post"})
	if got.Domain != "example.co.uk" {
		t.Fatalf("unexpected derived domain: %q", got.Domain)
	}

	kept := Normalize(Post{URL: "https://a.example.com/x", Domain: "custom"})
	if kept.Domain != "custom" {
		t.Fatalf("expected existing domain kept, got %q", kept.Domain)
	}

	bad := Normalize(Post{URL: "::not a url"})
	if bad.Domain != "" {
		t.Fatalf("expected empty domain for invalid URL, got %q", bad.Domain)
	}
}
