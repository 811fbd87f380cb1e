// Package watchlist keeps the user's movies and TV shows to watch in a local
// sqlite database and mirrors changes to the TMDB account when signed in.
package watchlist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0up4200/cloudmovies/auth"
	"github.com/s0up4200/cloudmovies/filter"
	"github.com/s0up4200/cloudmovies/tmdb"
)

var (
	// ErrNotFound is returned when removing an entry that is not stored
	ErrNotFound = errors.New("not on watchlist")
	// ErrInvalidEntry is returned for entries without id, title or type
	ErrInvalidEntry = errors.New("invalid watchlist entry")
)

// Entry is one watchlisted movie or TV show
type Entry struct {
	MediaType tmdb.MediaType
	MediaID   int64
	Title     string
	Year      int
	Rating    float64
	Overview  string
	AddedAt   time.Time
}

// Media returns the filter view of the entry
func (e Entry) Media() filter.Media {
	return filter.Media{
		TMDBID:    e.MediaID,
		MediaType: string(e.MediaType),
		Title:     e.Title,
		Overview:  e.Overview,
		Year:      e.Year,
		Rating:    e.Rating,
		AddedAt:   e.AddedAt,
	}
}

// FromMovie builds an entry from a TMDB movie
func FromMovie(m tmdb.Movie) Entry {
	return Entry{
		MediaType: tmdb.MediaTypeMovie,
		MediaID:   m.ID,
		Title:     m.Title,
		Year:      m.Year(),
		Rating:    m.VoteAverage,
		Overview:  m.Overview,
	}
}

// FromTV builds an entry from a TMDB TV show
func FromTV(s tmdb.TVShow) Entry {
	return Entry{
		MediaType: tmdb.MediaTypeTV,
		MediaID:   s.ID,
		Title:     s.Name,
		Year:      s.Year(),
		Rating:    s.VoteAverage,
		Overview:  s.Overview,
	}
}

// SessionSource returns the current identity
type SessionSource interface {
	Current() auth.Identity
}

// Service owns the watchlist. It is created once at startup and handed to
// the screens that need it.
type Service struct {
	repo    *Repository
	filters *filter.Manager
	remote  tmdb.WatchlistAPI
	session SessionSource
	logger  zerolog.Logger
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithRemote mirrors add and remove to the TMDB account of the current
// non-guest session
func WithRemote(remote tmdb.WatchlistAPI, session SessionSource) ServiceOption {
	return func(s *Service) {
		s.remote = remote
		s.session = session
	}
}

// WithFilters sets the filter manager used by Filter and FilterPreset
func WithFilters(m *filter.Manager) ServiceOption {
	return func(s *Service) {
		s.filters = m
	}
}

// NewService creates a watchlist service
func NewService(repo *Repository, logger zerolog.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		repo:    repo,
		filters: filter.NewManager(),
		logger:  logger.With().Str("component", "watchlist").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add stores e. Adding an entry twice keeps the first AddedAt.
func (s *Service) Add(ctx context.Context, e Entry) error {
	e.Title = strings.TrimSpace(e.Title)
	if e.MediaID <= 0 || e.Title == "" || (e.MediaType != tmdb.MediaTypeMovie && e.MediaType != tmdb.MediaTypeTV) {
		return fmt.Errorf("%w: %s %d %q", ErrInvalidEntry, e.MediaType, e.MediaID, e.Title)
	}
	if e.AddedAt.IsZero() {
		e.AddedAt = time.Now().UTC()
	}

	added, err := s.repo.Insert(ctx, e)
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", e.Title, err)
	}
	if !added {
		s.logger.Debug().Str("title", e.Title).Msg("Already on watchlist")
		return nil
	}

	s.logger.Info().
		Str("media_type", string(e.MediaType)).
		Int64("media_id", e.MediaID).
		Str("title", e.Title).
		Msg("Added to watchlist")
	s.mirror(ctx, e.MediaType, e.MediaID, true)
	return nil
}

// Remove deletes an entry; ErrNotFound when it is not stored
func (s *Service) Remove(ctx context.Context, mediaType tmdb.MediaType, mediaID int64) error {
	removed, err := s.repo.Delete(ctx, mediaType, mediaID)
	if err != nil {
		return fmt.Errorf("failed to remove %s %d: %w", mediaType, mediaID, err)
	}
	if !removed {
		return fmt.Errorf("%w: %s %d", ErrNotFound, mediaType, mediaID)
	}

	s.logger.Info().
		Str("media_type", string(mediaType)).
		Int64("media_id", mediaID).
		Msg("Removed from watchlist")
	s.mirror(ctx, mediaType, mediaID, false)
	return nil
}

// Contains reports whether an item is watchlisted
func (s *Service) Contains(ctx context.Context, mediaType tmdb.MediaType, mediaID int64) (bool, error) {
	ok, err := s.repo.Exists(ctx, mediaType, mediaID)
	if err != nil {
		return false, fmt.Errorf("failed to query watchlist: %w", err)
	}
	return ok, nil
}

// List returns entries of mediaType, or all entries when it is empty
func (s *Service) List(ctx context.Context, mediaType tmdb.MediaType) ([]Entry, error) {
	entries, err := s.repo.List(ctx, mediaType)
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}
	return entries, nil
}

// IDs returns the TMDB ids of watchlisted items of mediaType
func (s *Service) IDs(ctx context.Context, mediaType tmdb.MediaType) ([]int64, error) {
	entries, err := s.List(ctx, mediaType)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(entries))
	for i, e := range entries {
		ids[i] = e.MediaID
	}
	return ids, nil
}

// Filter returns entries of mediaType matching an expr expression
func (s *Service) Filter(ctx context.Context, expression string, mediaType tmdb.MediaType) ([]Entry, error) {
	f, err := s.filters.Compile(expression)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, f, mediaType)
}

// FilterPreset returns entries of mediaType matching a named preset
func (s *Service) FilterPreset(ctx context.Context, name string, mediaType tmdb.MediaType) ([]Entry, error) {
	f, err := s.filters.Preset(name)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, f, mediaType)
}

func (s *Service) apply(ctx context.Context, f filter.Filter, mediaType tmdb.MediaType) ([]Entry, error) {
	entries, err := s.List(ctx, mediaType)
	if err != nil {
		return nil, err
	}
	return filter.Apply(f, entries, Entry.Media)
}

func (s *Service) mirror(ctx context.Context, mediaType tmdb.MediaType, mediaID int64, on bool) {
	if s.remote == nil || s.session == nil {
		return
	}
	id := s.session.Current()
	if !id.HasAccount() {
		return
	}
	if err := s.remote.SetWatchlist(ctx, id.AccountID, id.SessionID, mediaType, mediaID, on); err != nil {
		s.logger.Warn().Err(err).
			Str("media_type", string(mediaType)).
			Int64("media_id", mediaID).
			Msg("Failed to sync TMDB watchlist")
	}
}
