package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/s0up4200/cloudmovies/tmdb"
	"github.com/s0up4200/cloudmovies/watchlist"
)

// discoverPerSection is the number of titles shown per section
const discoverPerSection = 5

// discoverMode selects how the discover titles are grouped
type discoverMode int

const (
	modeSections discoverMode = iota
	modeMovieGenres
	modeTVGenres
)

var discoverModeNames = []string{"Discover", "Movies", "TV Shows"}

type discoverSection struct {
	name  string
	items []watchlist.Entry
	err   error
}

type discoverModel struct {
	*shared
	loading  bool
	err      error
	result   *tmdb.DiscoverResult
	mode     discoverMode
	sections []discoverSection
	cursor   int

	movieGenres   []tmdb.Genre
	tvGenres      []tmdb.Genre
	genresLoaded  bool
	genresLoading bool
	genresErr     error
}

func newDiscoverModel(sh *shared) *discoverModel {
	return &discoverModel{shared: sh}
}

func (m *discoverModel) load() tea.Cmd {
	m.loading = true
	browse, ctx := m.deps.Browse, m.ctx
	return func() tea.Msg {
		result, err := browse.Discover(ctx)
		return discoverMsg{result: result, err: err}
	}
}

func (m *discoverModel) loadGenres() tea.Cmd {
	m.genresLoading = true
	m.genresErr = nil
	browse, ctx := m.deps.Browse, m.ctx
	return func() tea.Msg {
		movie, err := browse.MovieGenres(ctx)
		if err != nil {
			return genresMsg{err: err}
		}
		tv, err := browse.TVGenres(ctx)
		return genresMsg{movie: movie, tv: tv, err: err}
	}
}

func (m *discoverModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case discoverMsg:
		m.loading = false
		m.err = msg.err
		m.result = nil
		if msg.err == nil {
			m.result = msg.result
		}
		m.rebuild()
		return nil

	case genresMsg:
		m.genresLoading = false
		m.genresErr = msg.err
		if msg.err == nil {
			m.movieGenres, m.tvGenres = msg.movie, msg.tv
			m.genresLoaded = true
		}
		m.rebuild()
		return nil

	case tea.KeyMsg:
		total := m.count()
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < total-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Genre):
			m.mode = (m.mode + 1) % discoverMode(len(discoverModeNames))
			if m.mode != modeSections && !m.genresLoaded && !m.genresLoading {
				cmd := m.loadGenres()
				m.rebuild()
				return cmd
			}
			m.rebuild()
		case key.Matches(msg, keys.Add):
			if e, ok := m.selected(); ok {
				return addToWatchlist(m.shared, e)
			}
		case key.Matches(msg, keys.Refresh):
			if !m.loading {
				return m.load()
			}
		}
	}
	return nil
}

// rebuild regroups the loaded titles for the current mode
func (m *discoverModel) rebuild() {
	m.sections = nil
	m.cursor = 0
	if m.result == nil {
		return
	}

	switch m.mode {
	case modeSections:
		m.sections = buildSections(m.result)
	case modeMovieGenres:
		if m.genresLoaded {
			m.sections = genreSections(m.result.AllMovies(), m.movieGenres, watchlist.FromMovie)
		}
	case modeTVGenres:
		if m.genresLoaded {
			m.sections = genreSections(m.result.AllTV(), m.tvGenres, watchlist.FromTV)
		}
	}
}

func buildSections(r *tmdb.DiscoverResult) []discoverSection {
	var out []discoverSection
	for _, name := range tmdb.MovieSections {
		s := discoverSection{name: string(name), err: r.Errors[name]}
		for _, mv := range first(r.Movies[name], discoverPerSection) {
			s.items = append(s.items, watchlist.FromMovie(mv))
		}
		out = append(out, s)
	}
	for _, name := range tmdb.TVSections {
		s := discoverSection{name: string(name), err: r.Errors[name]}
		for _, show := range first(r.TV[name], discoverPerSection) {
			s.items = append(s.items, watchlist.FromTV(show))
		}
		out = append(out, s)
	}
	return out
}

// genreSections buckets items under their genres in alphabetical order
func genreSections[T tmdb.GenreTagged](items []T, genres []tmdb.Genre, conv func(T) watchlist.Entry) []discoverSection {
	grouped := tmdb.GroupByGenre(items, genres)
	out := make([]discoverSection, 0, len(grouped))
	for _, name := range tmdb.SortedGenreNames(grouped) {
		s := discoverSection{name: name}
		for _, item := range first(grouped[name], discoverPerSection) {
			s.items = append(s.items, conv(item))
		}
		out = append(out, s)
	}
	return out
}

func first[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func (m *discoverModel) count() int {
	n := 0
	for _, s := range m.sections {
		n += len(s.items)
	}
	return n
}

func (m *discoverModel) selected() (watchlist.Entry, bool) {
	i := m.cursor
	for _, s := range m.sections {
		if i < len(s.items) {
			return s.items[i], true
		}
		i -= len(s.items)
	}
	return watchlist.Entry{}, false
}

func (m *discoverModel) View() string {
	var b strings.Builder

	for i, name := range discoverModeNames {
		if discoverMode(i) == m.mode {
			b.WriteString(m.styles.ActiveTab.Render(name))
		} else {
			b.WriteString(m.styles.Tab.Render(name))
		}
	}
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.styles.Muted.Render("Loading…") + "\n")
		return b.String()
	case m.err != nil:
		b.WriteString(m.styles.Error.Render("Could not load discover: "+m.err.Error()) + "\n")
		return b.String()
	case m.mode != modeSections && m.genresLoading:
		b.WriteString(m.styles.Muted.Render("Loading genres…") + "\n")
		return b.String()
	case m.mode != modeSections && m.genresErr != nil:
		b.WriteString(m.styles.Error.Render("Could not load genres: "+m.genresErr.Error()) + "\n")
		return b.String()
	}

	offset := 0
	for _, s := range m.sections {
		b.WriteString(m.styles.Subtitle.Render(s.name))
		b.WriteString("\n")
		switch {
		case s.err != nil:
			b.WriteString(m.styles.Muted.Render("  unavailable") + "\n")
		case len(s.items) == 0:
			b.WriteString(m.styles.Muted.Render("  nothing here") + "\n")
		default:
			b.WriteString(renderEntries(m.styles, s.items, m.cursor-offset))
		}
		offset += len(s.items)
	}
	return b.String()
}
