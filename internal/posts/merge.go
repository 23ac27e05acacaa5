package posts

// Unique drops every post whose URL was already seen, keeping the first one.
func Unique(list []Post) []Post {
	seen := make(map[string]struct{}, len(list))
	out := make([]Post, 0, len(list))
	for _, p := range list {
		if _, ok := seen[p.URL]; ok {
			continue
		}
		seen[p.URL] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Merge concatenates the sequences in order and deduplicates by URL, so a post
// from an earlier sequence wins over a later duplicate.
func Merge(seqs ...[]Post) []Post {
	total := 0
	for _, s := range seqs {
		total += len(s)
	}
	all := make([]Post, 0, total)
	for _, s := range seqs {
		all = append(all, s...)
	}
	return Unique(all)
}

// Without returns the posts that do not satisfy drop.
func Without(list []Post, drop func(Post) bool) []Post {
	out := make([]Post, 0, len(list))
	for _, p := range list {
		if !drop(p) {
			out = append(out, p)
		}
	}
	return out
}

// URLs lists the URLs of the posts in order.
func URLs(list []Post) []string {
	out := make([]string, 0, len(list))
	for _, p := range list {
		out = append(out, p.URL)
	}
	return out
}
