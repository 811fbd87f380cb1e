package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/s0up4200/cloudmovies/tmdb"
	"github.com/s0up4200/cloudmovies/watchlist"
)

type watchlistModel struct {
	*shared
	movies  []watchlist.Entry
	tv      []watchlist.Entry
	cursor  int
	guest   bool
	loading bool
	err     error
}

func newWatchlistModel(sh *shared) *watchlistModel {
	return &watchlistModel{shared: sh}
}

func (m *watchlistModel) load() tea.Cmd {
	m.loading = true
	m.guest = m.deps.Auth.Current().Guest
	wl, ctx := m.deps.Watchlist, m.ctx
	return func() tea.Msg {
		entries, err := wl.List(ctx, "")
		return watchlistMsg{entries: entries, err: err}
	}
}

func (m *watchlistModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case watchlistMsg:
		m.loading = false
		m.err = msg.err
		m.movies, m.tv = nil, nil
		for _, e := range msg.entries {
			if e.MediaType.IsMovie() {
				m.movies = append(m.movies, e)
			} else {
				m.tv = append(m.tv, e)
			}
		}
		if total := len(m.movies) + len(m.tv); m.cursor >= total {
			m.cursor = max(total-1, 0)
		}
		return nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.movies)+len(m.tv)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Remove):
			if e, ok := m.selected(); ok {
				return m.remove(e)
			}
		case key.Matches(msg, keys.Refresh):
			return m.load()
		}
	}
	return nil
}

func (m *watchlistModel) selected() (watchlist.Entry, bool) {
	switch {
	case m.cursor < len(m.movies):
		return m.movies[m.cursor], true
	case m.cursor-len(m.movies) < len(m.tv):
		return m.tv[m.cursor-len(m.movies)], true
	}
	return watchlist.Entry{}, false
}

func (m *watchlistModel) remove(e watchlist.Entry) tea.Cmd {
	wl, ctx := m.deps.Watchlist, m.ctx
	return func() tea.Msg {
		return watchlistChangedMsg{title: e.Title, err: wl.Remove(ctx, e.MediaType, e.MediaID)}
	}
}

func (m *watchlistModel) View() string {
	var b strings.Builder

	if m.guest {
		b.WriteString(m.styles.Warning.Render("Guest session: your watchlist is kept on this computer only. Sign in to sync it with TMDB."))
		b.WriteString("\n\n")
	}
	if m.err != nil {
		b.WriteString(m.styles.Error.Render("Could not load watchlist: " + m.err.Error()))
		b.WriteString("\n")
		return b.String()
	}

	sections := []struct {
		mediaType tmdb.MediaType
		entries   []watchlist.Entry
		offset    int
	}{
		{tmdb.MediaTypeMovie, m.movies, 0},
		{tmdb.MediaTypeTV, m.tv, len(m.movies)},
	}
	for _, s := range sections {
		b.WriteString(m.styles.Subtitle.Render(s.mediaType.Label()))
		b.WriteString("\n")
		if len(s.entries) == 0 {
			b.WriteString(m.styles.Muted.Render("  Nothing here yet"))
			b.WriteString("\n")
			continue
		}
		b.WriteString(renderEntries(m.styles, s.entries, m.cursor-s.offset))
	}
	return b.String()
}
