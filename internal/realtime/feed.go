// Package realtime turns a year's month documents into a stream of change
// batches, one batch per poll that observed at least one modified month.
package realtime

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/glabrego/devwebfeed/internal/devweb"
	"github.com/glabrego/devwebfeed/internal/posts"
)

const DefaultInterval = 15 * time.Second

type MonthLister interface {
	ListMonths(ctx context.Context, year int) ([]devweb.MonthDoc, error)
}

// Doc is the snapshot of a changed month document.
type Doc struct {
	Items []posts.Post
}

// Change describes one modified month. OldIndex is the zero-based month.
type Change struct {
	OldIndex int
	Doc      Doc
}

type Batch struct {
	Year    int
	Changes []Change
}

type Feed struct {
	lister   MonthLister
	interval time.Duration
}

func NewFeed(lister MonthLister, interval time.Duration) *Feed {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Feed{lister: lister, interval: interval}
}

// Subscription delivers batches until Unsubscribe is called or the parent
// context ends; the channel is closed in both cases.
type Subscription struct {
	year   int
	ch     chan Batch
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (s *Subscription) C() <-chan Batch {
	return s.ch
}

func (s *Subscription) Year() int {
	return s.year
}

// Unsubscribe stops polling and waits for the poller to exit.
func (s *Subscription) Unsubscribe() {
	s.once.Do(s.cancel)
	<-s.done
}

func (f *Feed) Subscribe(ctx context.Context, year int) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		year:   year,
		ch:     make(chan Batch),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go f.run(ctx, sub)
	return sub
}

func (f *Feed) run(ctx context.Context, sub *Subscription) {
	defer close(sub.done)
	defer close(sub.ch)

	var last map[int][32]byte
	poll := func() {
		docs, err := f.lister.ListMonths(ctx, sub.year)
		if err != nil {
			if ctx.Err() == nil {
				log.Warn().Err(err).Int("year", sub.year).Msg("change feed poll failed")
			}
			return
		}
		current := fingerprints(docs)
		if last == nil {
			last = current
			return
		}
		changes := diff(last, current, docs)
		last = current
		if len(changes) == 0 {
			return
		}
		log.Debug().Int("year", sub.year).Int("changes", len(changes)).Msg("change feed poll")
		// One month per batch: consumers apply only the first change.
		for _, change := range changes {
			select {
			case sub.ch <- Batch{Year: sub.year, Changes: []Change{change}}:
			case <-ctx.Done():
				return
			}
		}
	}

	poll()
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			poll()
		}
	}
}

func fingerprints(docs []devweb.MonthDoc) map[int][32]byte {
	out := make(map[int][32]byte, len(docs))
	for _, doc := range docs {
		raw, err := json.Marshal(doc.Items)
		if err != nil {
			continue
		}
		out[doc.Month] = sha256.Sum256(raw)
	}
	return out
}

func diff(prev, current map[int][32]byte, docs []devweb.MonthDoc) []Change {
	items := make(map[int][]posts.Post, len(docs))
	for _, doc := range docs {
		items[doc.Month] = doc.Items
	}

	months := make([]int, 0, len(current))
	for month, sum := range current {
		if old, ok := prev[month]; !ok || old != sum {
			months = append(months, month)
		}
	}
	for month := range prev {
		if _, ok := current[month]; !ok {
			months = append(months, month)
		}
	}
	sort.Ints(months)

	changes := make([]Change, 0, len(months))
	for _, month := range months {
		changes = append(changes, Change{OldIndex: month, Doc: Doc{Items: items[month]}})
	}
	return changes
}
