package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/s0up4200/cloudmovies/tmdb"
	"github.com/s0up4200/cloudmovies/watchlist"
)

type searchModel struct {
	*shared
	input     textinput.Model
	mediaType tmdb.MediaType
	query     string
	page      int // last page loaded
	pending   int // page being fetched
	hasMore   bool
	results   []watchlist.Entry
	recents   []string
	cursor    int
	loading   bool
	err       error
}

func newSearchModel(sh *shared) *searchModel {
	in := textinput.New()
	in.Placeholder = "title"
	in.Prompt = "Search: "
	in.CharLimit = 100

	return &searchModel{shared: sh, input: in, mediaType: tmdb.MediaTypeMovie}
}

func (m *searchModel) Init() tea.Cmd {
	return m.loadRecents()
}

func (m *searchModel) typing() bool {
	return m.input.Focused()
}

func (m *searchModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case searchMsg:
		if msg.mediaType != m.mediaType || msg.query != m.query || msg.page != m.pending {
			return nil // stale
		}
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			return nil
		}
		m.page = msg.page
		m.results = append(m.results, msg.items...)
		m.hasMore = msg.hasMore
		if msg.page == 1 {
			return m.loadRecents()
		}
		return nil

	case recentsMsg:
		if msg.mediaType == m.mediaType {
			m.recents = msg.queries
		}
		return nil

	case tea.KeyMsg:
		if m.typing() {
			switch {
			case key.Matches(msg, keys.Enter):
				m.input.Blur()
				return m.search(m.input.Value(), 1)
			case key.Matches(msg, keys.Back):
				m.input.Blur()
				return nil
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return cmd
		}
		return m.handleKey(msg)
	}

	if m.typing() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}
	return nil
}

func (m *searchModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Focus):
		return m.input.Focus()
	case key.Matches(msg, keys.Toggle):
		if m.mediaType.IsMovie() {
			m.mediaType = tmdb.MediaTypeTV
		} else {
			m.mediaType = tmdb.MediaTypeMovie
		}
		m.recents = nil
		return tea.Batch(m.search(m.query, 1), m.loadRecents())
	case key.Matches(msg, keys.NextPage):
		if m.hasMore && !m.loading {
			return m.search(m.query, m.page+1)
		}
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < m.listLen()-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(m.results) == 0 && m.cursor < len(m.recents) {
			q := m.recents[m.cursor]
			m.input.SetValue(q)
			return m.search(q, 1)
		}
	case key.Matches(msg, keys.Add):
		if e, ok := m.selected(); ok {
			return addToWatchlist(m.shared, e)
		}
	}
	return nil
}

// selected returns the highlighted result; recent searches are not titles
func (m *searchModel) selected() (watchlist.Entry, bool) {
	if m.cursor < len(m.results) {
		return m.results[m.cursor], true
	}
	return watchlist.Entry{}, false
}

func (m *searchModel) listLen() int {
	if len(m.results) > 0 {
		return len(m.results)
	}
	return len(m.recents)
}

// search runs query; page 1 replaces the results, later pages append
func (m *searchModel) search(query string, page int) tea.Cmd {
	query = strings.TrimSpace(query)
	m.query = query
	m.pending = page
	if page == 1 {
		m.page = 0
		m.results = nil
		m.cursor = 0
		m.hasMore = false
	}
	if query == "" {
		m.loading = false
		return nil
	}
	m.loading = true
	m.err = nil

	browse, recents, ctx, mediaType := m.deps.Browse, m.deps.Recents, m.ctx, m.mediaType
	logger := m.logger
	return func() tea.Msg {
		msg := searchMsg{mediaType: mediaType, query: query, page: page}
		if mediaType.IsMovie() {
			p, err := browse.SearchMovies(ctx, query, page)
			if err != nil {
				msg.err = err
				return msg
			}
			for _, mv := range p.Results {
				msg.items = append(msg.items, watchlist.FromMovie(mv))
			}
			msg.hasMore = p.HasMorePages()
		} else {
			p, err := browse.SearchTV(ctx, query, page)
			if err != nil {
				msg.err = err
				return msg
			}
			for _, show := range p.Results {
				msg.items = append(msg.items, watchlist.FromTV(show))
			}
			msg.hasMore = p.HasMorePages()
		}

		if recents != nil && page == 1 {
			if err := recents.Record(ctx, mediaType, query); err != nil {
				logger.Warn().Err(err).Msg("Failed to record recent search")
			}
		}
		return msg
	}
}

func (m *searchModel) loadRecents() tea.Cmd {
	recents, ctx, mediaType := m.deps.Recents, m.ctx, m.mediaType
	if recents == nil {
		return nil
	}
	return func() tea.Msg {
		queries, _ := recents.List(ctx, mediaType)
		return recentsMsg{mediaType: mediaType, queries: queries}
	}
}

func (m *searchModel) View() string {
	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("  ")
	for _, mt := range []tmdb.MediaType{tmdb.MediaTypeMovie, tmdb.MediaTypeTV} {
		if mt == m.mediaType {
			b.WriteString(m.styles.ActiveTab.Render(mt.Label()))
		} else {
			b.WriteString(m.styles.Tab.Render(mt.Label()))
		}
	}
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(m.styles.Error.Render("Search failed: " + m.err.Error()))
		b.WriteString("\n")
	case len(m.results) > 0:
		b.WriteString(renderEntries(m.styles, m.results, m.cursor))
		if m.hasMore {
			b.WriteString(m.styles.Muted.Render(fmt.Sprintf("page %d, press n for more", m.page)))
			b.WriteString("\n")
		}
	case m.loading:
		b.WriteString(m.styles.Muted.Render("Searching…"))
		b.WriteString("\n")
	case m.query != "":
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("No results for %q", m.query)))
		b.WriteString("\n")
	case len(m.recents) > 0:
		b.WriteString(m.styles.Subtitle.Render("Recent searches"))
		b.WriteString("\n")
		for i, q := range m.recents {
			if i == m.cursor {
				b.WriteString(m.styles.Highlighted.Render("›") + " " + q + "\n")
			} else {
				b.WriteString("  " + q + "\n")
			}
		}
	default:
		b.WriteString(m.styles.Muted.Render("Press / to search"))
		b.WriteString("\n")
	}
	if m.loading && len(m.results) > 0 {
		b.WriteString(m.styles.Muted.Render("Loading more…"))
		b.WriteString("\n")
	}
	return b.String()
}
