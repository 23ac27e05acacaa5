package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/glabrego/devwebfeed/internal/board"
	"github.com/glabrego/devwebfeed/internal/posts"
)

const includeTweetsKey = "include_tweets"

type DevWebClient interface {
	ListYear(ctx context.Context, year, maxResults int) ([]posts.Post, error)
	ListTweets(ctx context.Context, handle string) ([]posts.Post, error)
	DeletePost(ctx context.Context, year, month, url string) error
}

type Repository interface {
	SaveSnapshot(ctx context.Context, list []posts.Post) error
	LoadSnapshot(ctx context.Context) ([]posts.Post, error)
	GetMeta(ctx context.Context, key string) (string, bool, error)
	SetMeta(ctx context.Context, key, value string) error
}

type Preferences struct {
	IncludeTweets bool
}

type Service struct {
	client      DevWebClient
	repo        Repository
	tweetHandle string
	maxResults  int
	nowFn       func() time.Time
}

func NewService(client DevWebClient, repo Repository, tweetHandle string) *Service {
	return &Service{client: client, repo: repo, tweetHandle: tweetHandle, nowFn: time.Now}
}

// WithMaxResults caps every per-year request.
func (s *Service) WithMaxResults(n int) *Service {
	s.maxResults = n
	return s
}

func (s *Service) CurrentYear() int {
	return s.nowFn().Year()
}

// LatestPosts fetches last year, this year and the tweet feed one after
// another and merges them with this year's posts first. The result is saved
// as the startup snapshot.
func (s *Service) LatestPosts(ctx context.Context) ([]posts.Post, error) {
	year := s.CurrentYear()

	lastYear, err := s.client.ListYear(ctx, year-1, s.maxResults)
	if err != nil {
		return nil, fmt.Errorf("fetch %d posts: %w", year-1, err)
	}
	thisYear, err := s.client.ListYear(ctx, year, s.maxResults)
	if err != nil {
		return nil, fmt.Errorf("fetch %d posts: %w", year, err)
	}
	tweets, err := s.client.ListTweets(ctx, s.tweetHandle)
	if err != nil {
		return nil, fmt.Errorf("fetch tweets for %s: %w", s.tweetHandle, err)
	}

	merged := posts.Merge(thisYear, lastYear, tweets)

	if s.repo != nil {
		if err := s.repo.SaveSnapshot(ctx, merged); err != nil {
			log.Warn().Err(err).Msg("could not save post snapshot")
		}
	}
	return merged, nil
}

// CachedSnapshot returns the list saved by the previous LatestPosts call.
func (s *Service) CachedSnapshot(ctx context.Context) ([]posts.Post, error) {
	if s.repo == nil {
		return nil, nil
	}
	list, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot from cache: %w", err)
	}
	return list, nil
}

// DeletePost removes a post identified by its displayed date and URL.
func (s *Service) DeletePost(ctx context.Context, displayDate, url string) error {
	_, err := board.Delete(ctx, s.client, nil, displayDate, url)
	return err
}

func (s *Service) LoadPreferences(ctx context.Context, defaults Preferences) (Preferences, error) {
	if s.repo == nil {
		return defaults, nil
	}
	raw, ok, err := s.repo.GetMeta(ctx, includeTweetsKey)
	if err != nil {
		return defaults, fmt.Errorf("load preferences: %w", err)
	}
	if !ok {
		return defaults, nil
	}
	include, err := strconv.ParseBool(raw)
	if err != nil {
		return defaults, fmt.Errorf("parse %s preference %q: %w", includeTweetsKey, raw, err)
	}
	return Preferences{IncludeTweets: include}, nil
}

func (s *Service) SavePreferences(ctx context.Context, prefs Preferences) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.SetMeta(ctx, includeTweetsKey, strconv.FormatBool(prefs.IncludeTweets)); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}
