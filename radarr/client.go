// Package radarr hands watchlisted movies over to a Radarr instance.
package radarr

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golift.io/starr"
	"golift.io/starr/radarr"
)

// DefaultTimeout is the request timeout of clients built by NewClient
const DefaultTimeout = 30 * time.Second

var (
	// ErrNoQualityProfile is returned when no quality profile can be resolved
	ErrNoQualityProfile = errors.New("no matching quality profile")
	// ErrNoRootFolder is returned when no root folder can be resolved
	ErrNoRootFolder = errors.New("no matching root folder")
)

// Client wraps the starr Radarr client
type Client struct {
	api    RadarrAPI
	logger zerolog.Logger
}

// NewClient creates a Radarr client and checks the connection
func NewClient(url, apiKey string, logger zerolog.Logger) (*Client, error) {
	if url == "" || apiKey == "" {
		return nil, fmt.Errorf("radarr URL and API key are required")
	}

	api := radarr.New(starr.New(apiKey, url, DefaultTimeout))
	if err := api.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to Radarr: %w", err)
	}

	return NewClientWithAPI(api, logger), nil
}

// NewClientWithAPI creates a client on top of an existing API implementation
func NewClientWithAPI(api RadarrAPI, logger zerolog.Logger) *Client {
	return &Client{
		api:    api,
		logger: logger.With().Str("component", "radarr").Logger(),
	}
}

// TestConnection pings Radarr
func (c *Client) TestConnection() error {
	if err := c.api.Ping(); err != nil {
		return fmt.Errorf("failed to connect to Radarr: %w", err)
	}
	return nil
}

// FindByTMDBID returns the Radarr movie for a TMDB id, or nil when Radarr
// does not know it
func (c *Client) FindByTMDBID(ctx context.Context, tmdbID int64) (*radarr.Movie, error) {
	movies, err := c.api.GetMovieContext(ctx, &radarr.GetMovie{TMDBID: tmdbID})
	if err != nil {
		return nil, fmt.Errorf("failed to look up tmdb id %d: %w", tmdbID, err)
	}
	for _, m := range movies {
		if m.TmdbID == tmdbID {
			return m, nil
		}
	}
	return nil, nil
}

// ResolveQualityProfile returns the id of the profile named name
// (case-insensitive), or of the first profile when name is empty
func (c *Client) ResolveQualityProfile(ctx context.Context, name string) (int64, error) {
	profiles, err := c.api.GetQualityProfilesContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get quality profiles: %w", err)
	}
	for _, p := range profiles {
		if name == "" || strings.EqualFold(p.Name, name) {
			return p.ID, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrNoQualityProfile, name)
}

// ResolveRootFolder returns path when Radarr knows it, or the first
// root folder when path is empty
func (c *Client) ResolveRootFolder(ctx context.Context, path string) (string, error) {
	folders, err := c.api.GetRootFoldersContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get root folders: %w", err)
	}
	want := strings.TrimRight(path, "/")
	for _, f := range folders {
		if want == "" || strings.TrimRight(f.Path, "/") == want {
			return f.Path, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrNoRootFolder, path)
}

// SearchMovies asks Radarr to search for the given movies
func (c *Client) SearchMovies(ctx context.Context, movieIDs ...int64) error {
	if len(movieIDs) == 0 {
		return nil
	}
	resp, err := c.api.SendCommandContext(ctx, &radarr.CommandRequest{
		Name:     "MoviesSearch",
		MovieIDs: movieIDs,
	})
	if err != nil {
		return fmt.Errorf("failed to start movie search: %w", err)
	}
	c.logger.Info().Int64("command_id", resp.ID).Int("movies", len(movieIDs)).Msg("Started movie search")
	return nil
}
