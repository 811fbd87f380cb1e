package tmdb

import (
	"context"
)

// AuthAPI is the part of the client used by the authenticator
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*Session, error)
	CreateGuestSession(ctx context.Context) (*GuestSession, error)
	DeleteSession(ctx context.Context, sessionID string) error
	GetAccount(ctx context.Context, sessionID string) (*Account, error)
}

// WatchlistAPI mirrors local watchlist changes to a TMDB account
type WatchlistAPI interface {
	SetWatchlist(ctx context.Context, accountID int64, sessionID string, mediaType MediaType, mediaID int64, on bool) error
}

// BrowseAPI is the read-only part used by the discover, search and detail
// screens
type BrowseAPI interface {
	Discover(ctx context.Context) (*DiscoverResult, error)
	MovieGenres(ctx context.Context) ([]Genre, error)
	TVGenres(ctx context.Context) ([]Genre, error)
	SearchMovies(ctx context.Context, query string, page int) (*Page[Movie], error)
	SearchTV(ctx context.Context, query string, page int) (*Page[TVShow], error)
	MovieDetails(ctx context.Context, id int64) (*MovieDetails, error)
	TVDetails(ctx context.Context, id int64) (*TVDetails, error)
}

var (
	_ AuthAPI      = (*Client)(nil)
	_ WatchlistAPI = (*Client)(nil)
	_ BrowseAPI    = (*Client)(nil)
)
