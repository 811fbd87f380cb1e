package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/s0up4200/cloudmovies/auth"
	"github.com/s0up4200/cloudmovies/session"
	"github.com/s0up4200/cloudmovies/tmdb"
	"github.com/s0up4200/cloudmovies/watchlist"
)

// Authenticator is what the screens need from auth.Authenticator
type Authenticator interface {
	Login(ctx context.Context, username, password string) error
	ContinueAsGuest(ctx context.Context) error
	Logout(ctx context.Context) error
	Current() auth.Identity
	LastUsername() string
}

// Watchlist is what the screens need from watchlist.Service
type Watchlist interface {
	Add(ctx context.Context, e watchlist.Entry) error
	Remove(ctx context.Context, mediaType tmdb.MediaType, mediaID int64) error
	List(ctx context.Context, mediaType tmdb.MediaType) ([]watchlist.Entry, error)
}

// RecentSearches stores recent search queries
type RecentSearches interface {
	Record(ctx context.Context, mediaType tmdb.MediaType, query string) error
	List(ctx context.Context, mediaType tmdb.MediaType) ([]string, error)
}

// EventBus carries session events from the screens to the navigator
type EventBus interface {
	Publish(e session.Event) bool
	Events() <-chan session.Event
}

// Messages
type (
	// sessionEventMsg is a session event read from the bus
	sessionEventMsg struct{ event session.Event }
	// busClosedMsg is sent once the bus channel is closed
	busClosedMsg struct{}

	splashDoneMsg     struct{}
	transitionDoneMsg struct{ seq int }

	loginResultMsg  struct{ err error }
	logoutResultMsg struct{ err error }

	discoverMsg struct {
		result *tmdb.DiscoverResult
		err    error
	}
	genresMsg struct {
		movie []tmdb.Genre
		tv    []tmdb.Genre
		err   error
	}
	detailMsg struct {
		mediaType tmdb.MediaType
		id        int64
		movie     *tmdb.MovieDetails
		tv        *tmdb.TVDetails
		err       error
	}
	searchMsg struct {
		mediaType tmdb.MediaType
		query     string
		page      int
		items     []watchlist.Entry
		hasMore   bool
		err       error
	}
	recentsMsg struct {
		mediaType tmdb.MediaType
		queries   []string
	}
	watchlistMsg struct {
		entries []watchlist.Entry
		err     error
	}
	// watchlistChangedMsg reports the outcome of an add or remove
	watchlistChangedMsg struct {
		title string
		added bool
		err   error
	}
)

// waitForEvent reads the next session event from the bus
func waitForEvent(bus EventBus) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-bus.Events()
		if !ok {
			return busClosedMsg{}
		}
		return sessionEventMsg{event: e}
	}
}
