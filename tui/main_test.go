package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/cloudmovies/auth"
	"github.com/s0up4200/cloudmovies/tmdb"
	"github.com/s0up4200/cloudmovies/watchlist"
)

type fakeRecents struct {
	recorded []string
}

func (r *fakeRecents) Record(_ context.Context, _ tmdb.MediaType, q string) error {
	r.recorded = append(r.recorded, q)
	return nil
}

func (r *fakeRecents) List(context.Context, tmdb.MediaType) ([]string, error) {
	return r.recorded, nil
}

func newShared(h *testHarness, recents RecentSearches) *shared {
	return &shared{
		ctx: context.Background(),
		deps: Deps{
			Auth:      h.auth,
			Browse:    h.browse,
			Watchlist: h.list,
			Recents:   recents,
			Settings:  h.settings,
			Bus:       h.bus,
		},
		styles: DefaultStyles(),
		logger: zerolog.Nop(),
	}
}

func TestSearch_Pagination(t *testing.T) {
	h := newHarness(t, Options{})
	h.browse.pages = 2
	h.browse.movies[1] = []tmdb.Movie{{ID: 1, Title: "Alien", ReleaseDate: "1979-05-25"}}
	h.browse.movies[2] = []tmdb.Movie{{ID: 2, Title: "Aliens", ReleaseDate: "1986-07-18"}}
	recents := &fakeRecents{}
	m := newSearchModel(newShared(h, recents))

	m.Update(keyPress("/"))
	require.True(t, m.typing())
	for _, r := range "alien" {
		m.Update(keyPress(string(r)))
	}
	cmd := m.Update(keyPress("enter"))
	require.NotNil(t, cmd)
	assert.False(t, m.typing())

	m.Update(cmd())
	require.Len(t, m.results, 1)
	assert.True(t, m.hasMore)
	assert.Equal(t, []string{"alien"}, recents.recorded)

	cmd = m.Update(keyPress("n"))
	require.NotNil(t, cmd)
	m.Update(cmd())
	require.Len(t, m.results, 2)
	assert.Equal(t, "Aliens", m.results[1].Title)
	assert.False(t, m.hasMore)
	assert.Len(t, recents.recorded, 1, "only the first page is recorded")

	// no more pages
	assert.Nil(t, m.Update(keyPress("n")))
	assert.Contains(t, m.View(), "Aliens (1986)")
}

func TestSearch_StaleResultsIgnored(t *testing.T) {
	h := newHarness(t, Options{})
	m := newSearchModel(newShared(h, nil))
	m.query = "new"
	m.pending = 1
	m.mediaType = tmdb.MediaTypeMovie

	m.Update(searchMsg{
		mediaType: tmdb.MediaTypeMovie,
		query:     "old",
		page:      1,
		items:     []watchlist.Entry{{Title: "Old"}},
	})
	assert.Empty(t, m.results)

	m.Update(searchMsg{
		mediaType: tmdb.MediaTypeTV,
		query:     "new",
		page:      1,
		items:     []watchlist.Entry{{Title: "Wrong type"}},
	})
	assert.Empty(t, m.results)
}

func TestSearch_FailedPageIsRetried(t *testing.T) {
	h := newHarness(t, Options{})
	h.browse.pages = 3
	h.browse.movies[1] = []tmdb.Movie{{ID: 1, Title: "Alien"}}
	h.browse.movies[2] = []tmdb.Movie{{ID: 2, Title: "Aliens"}}
	m := newSearchModel(newShared(h, nil))

	m.Update(m.search("alien", 1)())
	require.Equal(t, 1, m.page)

	h.browse.searchErr = errors.New("timeout")
	m.Update(m.Update(keyPress("n"))())
	require.Error(t, m.err)
	assert.Equal(t, 1, m.page)
	assert.True(t, m.hasMore)

	h.browse.searchErr = nil
	cmd := m.Update(keyPress("n"))
	require.NotNil(t, cmd)
	msg := cmd().(searchMsg)
	assert.Equal(t, 2, msg.page, "the failed page is requested again")
	m.Update(msg)
	assert.Equal(t, 2, m.page)
	require.Len(t, m.results, 2)
	assert.Equal(t, "Aliens", m.results[1].Title)
}

func TestSearch_ToggleMediaType(t *testing.T) {
	h := newHarness(t, Options{})
	m := newSearchModel(newShared(h, nil))

	m.Update(keyPress("tab"))
	assert.Equal(t, tmdb.MediaTypeTV, m.mediaType)
	m.Update(keyPress("tab"))
	assert.Equal(t, tmdb.MediaTypeMovie, m.mediaType)
}

func TestSearch_AddSelected(t *testing.T) {
	h := newHarness(t, Options{})
	m := newSearchModel(newShared(h, nil))
	m.query, m.pending = "dune", 1
	m.Update(searchMsg{
		mediaType: tmdb.MediaTypeMovie,
		query:     "dune",
		page:      1,
		items: []watchlist.Entry{
			{MediaType: tmdb.MediaTypeMovie, MediaID: 1, Title: "Dune"},
			{MediaType: tmdb.MediaTypeMovie, MediaID: 2, Title: "Dune: Part Two"},
		},
	})

	m.Update(keyPress("down"))
	cmd := m.Update(keyPress("a"))
	require.NotNil(t, cmd)
	msg := cmd().(watchlistChangedMsg)
	assert.True(t, msg.added)
	assert.Equal(t, "Dune: Part Two", msg.title)
	require.Len(t, h.list.entries, 1)
	assert.Equal(t, int64(2), h.list.entries[0].MediaID)
}

func TestWatchlistTab(t *testing.T) {
	h := newHarness(t, Options{})
	h.list.entries = []watchlist.Entry{
		{MediaType: tmdb.MediaTypeTV, MediaID: 10, Title: "Severance"},
		{MediaType: tmdb.MediaTypeMovie, MediaID: 20, Title: "Heat"},
	}
	m := newWatchlistModel(newShared(h, nil))

	m.Update(m.load()())
	require.Len(t, m.movies, 1)
	require.Len(t, m.tv, 1)

	view := m.View()
	assert.Contains(t, view, "Heat")
	assert.Contains(t, view, "Severance")
	assert.NotContains(t, view, "Guest session")

	// movies come first, so the second row is the show
	m.Update(keyPress("down"))
	cmd := m.Update(keyPress("d"))
	require.NotNil(t, cmd)
	msg := cmd().(watchlistChangedMsg)
	assert.False(t, msg.added)
	assert.Equal(t, []int64{10}, h.list.removed)
}

func TestWatchlistTab_GuestNotice(t *testing.T) {
	h := newHarness(t, Options{})
	h.auth.identity = auth.Identity{SessionID: "guest", Guest: true}
	m := newWatchlistModel(newShared(h, nil))
	m.Update(m.load()())

	view := m.View()
	assert.Contains(t, view, "Guest session")
	assert.Contains(t, view, "Nothing here yet")
}

func TestWatchlistTab_IdentityReadOnLoad(t *testing.T) {
	h := newHarness(t, Options{})
	h.auth.identity = auth.Identity{SessionID: "guest", Guest: true}
	m := newWatchlistModel(newShared(h, nil))
	m.Update(m.load()())

	// rendering does not consult the authenticator again
	h.auth.identity = auth.Identity{Username: "alice", SessionID: "sess"}
	assert.Contains(t, m.View(), "Guest session")

	m.Update(m.load()())
	assert.NotContains(t, m.View(), "Guest session")
}

func discoverFixture() *tmdb.DiscoverResult {
	return &tmdb.DiscoverResult{
		Movies: map[tmdb.DiscoverSection][]tmdb.Movie{
			tmdb.SectionPopularMovies:  {{ID: 1, Title: "Heat", GenreIDs: []int{80}}, {ID: 2, Title: "Up", GenreIDs: []int{16, 35}}},
			tmdb.SectionTopRatedMovies: {{ID: 1, Title: "Heat", GenreIDs: []int{80}}},
		},
		TV: map[tmdb.DiscoverSection][]tmdb.TVShow{
			tmdb.SectionPopularTV: {{ID: 10, Name: "Bluey", GenreIDs: []int{16}}},
		},
		Errors: map[tmdb.DiscoverSection]error{},
	}
}

func TestDiscover_GenreModes(t *testing.T) {
	h := newHarness(t, Options{})
	h.browse.discover = discoverFixture()
	h.browse.genres = []tmdb.Genre{{ID: 16, Name: "Animation"}, {ID: 35, Name: "Comedy"}, {ID: 80, Name: "Crime"}}
	m := newDiscoverModel(newShared(h, nil))

	m.Update(m.load()())
	require.Equal(t, modeSections, m.mode)
	assert.Equal(t, string(tmdb.SectionPopularMovies), m.sections[0].name)

	cmd := m.Update(keyPress("g"))
	require.NotNil(t, cmd, "genres are fetched on first use")
	assert.Equal(t, modeMovieGenres, m.mode)
	assert.Contains(t, m.View(), "Loading genres")

	m.Update(cmd())
	var names []string
	for _, s := range m.sections {
		names = append(names, s.name)
	}
	assert.Equal(t, []string{"Animation", "Comedy", "Crime"}, names)
	require.Len(t, m.sections[2].items, 1, "titles in several sections are listed once")
	assert.Equal(t, "Heat", m.sections[2].items[0].Title)

	assert.Nil(t, m.Update(keyPress("g")), "genres are cached")
	assert.Equal(t, modeTVGenres, m.mode)
	require.Len(t, m.sections, 1)
	e, ok := m.selected()
	require.True(t, ok)
	assert.Equal(t, tmdb.MediaTypeTV, e.MediaType)
	assert.Equal(t, "Bluey", e.Title)

	m.Update(keyPress("g"))
	assert.Equal(t, modeSections, m.mode)
}

func TestMain_DetailView(t *testing.T) {
	h := newHarness(t, Options{})
	h.browse.discover = discoverFixture()
	h.browse.details[1] = &tmdb.MovieDetails{
		Movie:   tmdb.Movie{ID: 1, Title: "Heat", ReleaseDate: "1995-12-15"},
		Runtime: 170,
		Tagline: "A Los Angeles crime saga",
		Genres:  []tmdb.Genre{{ID: 80, Name: "Crime"}},
	}
	m := newMainModel(newShared(h, nil))
	m.Update(m.discover.load()())

	cmd := m.Update(keyPress("enter"))
	require.NotNil(t, cmd)
	require.NotNil(t, m.detail)
	assert.Contains(t, m.View(), "Loading details")

	m.Update(cmd())
	view := m.View()
	assert.Contains(t, view, "A Los Angeles crime saga")
	assert.Contains(t, view, "2h 50m")
	assert.Contains(t, view, "Crime")

	// tab keys do not leak through while a title is open
	m.Update(keyPress("2"))
	assert.Equal(t, tabDiscover, m.tab)

	add := m.Update(keyPress("a"))
	require.NotNil(t, add)
	assert.True(t, add().(watchlistChangedMsg).added)
	require.Len(t, h.list.entries, 1)
	assert.Equal(t, "Heat", h.list.entries[0].Title)

	m.Update(keyPress("esc"))
	assert.Nil(t, m.detail)
}

func TestMain_DetailViewError(t *testing.T) {
	h := newHarness(t, Options{})
	h.list.entries = []watchlist.Entry{{MediaType: tmdb.MediaTypeMovie, MediaID: 99, Title: "Lost"}}
	m := newMainModel(newShared(h, nil))

	m.Update(keyPress("3"))
	m.Update(m.watch.load()())

	cmd := m.Update(keyPress("enter"))
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.Contains(t, m.View(), "Could not load details")

	// a late reply for another title is ignored
	m.Update(detailMsg{mediaType: tmdb.MediaTypeMovie, id: 1, movie: &tmdb.MovieDetails{Tagline: "wrong"}})
	assert.NotContains(t, m.View(), "wrong")
}

func TestMain_TabsAndNotices(t *testing.T) {
	h := newHarness(t, Options{})
	h.auth.identity = auth.Identity{Username: "alice", SessionID: "sess"}
	m := newMainModel(newShared(h, nil))

	assert.Contains(t, m.View(), "alice")

	m.Update(keyPress("2"))
	assert.Equal(t, tabSearch, m.tab)

	// while typing in search, digits go to the input
	m.Update(keyPress("/"))
	m.Update(keyPress("3"))
	assert.Equal(t, tabSearch, m.tab)
	assert.Equal(t, "3", m.search.input.Value())
	m.Update(keyPress("esc"))

	cmd := m.Update(keyPress("3"))
	assert.Equal(t, tabWatchlist, m.tab)
	assert.NotNil(t, cmd)

	m.Update(watchlistChangedMsg{title: "Heat", added: true})
	assert.Contains(t, m.View(), "Added Heat to your watchlist")
}
