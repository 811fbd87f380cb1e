package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/s0up4200/cloudmovies/auth"
	"github.com/s0up4200/cloudmovies/watchlist"
)

const (
	tabDiscover = iota
	tabSearch
	tabWatchlist
)

var tabNames = []string{"Discover", "Search", "Watchlist"}

// mainModel is the tabbed main screen
type mainModel struct {
	*shared
	identity auth.Identity
	tab      int
	discover *discoverModel
	search   *searchModel
	watch    *watchlistModel
	detail   *detailModel // nil unless a title is open

	notice    string
	noticeErr bool
}

func newMainModel(sh *shared) *mainModel {
	return &mainModel{
		shared:   sh,
		identity: sh.deps.Auth.Current(),
		discover: newDiscoverModel(sh),
		search:   newSearchModel(sh),
		watch:    newWatchlistModel(sh),
	}
}

func (m *mainModel) Init() tea.Cmd {
	return tea.Batch(m.discover.load(), m.search.Init(), m.watch.load())
}

func (m *mainModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Logout) {
			return m.logout()
		}
		if m.detail != nil {
			return m.detailKey(msg)
		}
		if !(m.tab == tabSearch && m.search.typing()) {
			switch {
			case key.Matches(msg, keys.Quit):
				return tea.Quit
			case key.Matches(msg, keys.Tab1):
				m.tab = tabDiscover
				return nil
			case key.Matches(msg, keys.Tab2):
				m.tab = tabSearch
				return nil
			case key.Matches(msg, keys.Tab3):
				m.tab = tabWatchlist
				return m.watch.load()
			case key.Matches(msg, keys.Enter):
				if e, ok := m.selected(); ok {
					return m.openDetail(e)
				}
			}
		}
		m.notice = ""
		switch m.tab {
		case tabDiscover:
			return m.discover.Update(msg)
		case tabSearch:
			return m.search.Update(msg)
		default:
			return m.watch.Update(msg)
		}

	case logoutResultMsg:
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Msg("Logout did not complete cleanly")
		}
		return nil

	case watchlistChangedMsg:
		switch {
		case msg.err != nil:
			m.setNotice(msg.err.Error(), true)
		case msg.added:
			m.setNotice(fmt.Sprintf("Added %s to your watchlist", msg.title), false)
		default:
			m.setNotice(fmt.Sprintf("Removed %s from your watchlist", msg.title), false)
		}
		return m.watch.load()

	case discoverMsg, genresMsg:
		return m.discover.Update(msg)
	case detailMsg:
		if m.detail != nil {
			return m.detail.Update(msg)
		}
		return nil
	case searchMsg, recentsMsg:
		return m.search.Update(msg)
	case watchlistMsg:
		return m.watch.Update(msg)
	}

	// cursor blink and other input internals
	if m.tab == tabSearch {
		return m.search.Update(msg)
	}
	return nil
}

// selected returns the highlighted title of the current tab
func (m *mainModel) selected() (watchlist.Entry, bool) {
	switch m.tab {
	case tabDiscover:
		return m.discover.selected()
	case tabSearch:
		return m.search.selected()
	default:
		return m.watch.selected()
	}
}

func (m *mainModel) openDetail(e watchlist.Entry) tea.Cmd {
	m.notice = ""
	m.detail = newDetailModel(m.shared, e)
	return m.detail.load()
}

func (m *mainModel) detailKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit
	case key.Matches(msg, keys.Back):
		m.detail = nil
	case key.Matches(msg, keys.Add):
		return addToWatchlist(m.shared, m.detail.entry)
	}
	return nil
}

func (m *mainModel) setNotice(s string, isErr bool) {
	m.notice = s
	m.noticeErr = isErr
}

func (m *mainModel) logout() tea.Cmd {
	authn, ctx := m.deps.Auth, m.ctx
	return func() tea.Msg {
		return logoutResultMsg{err: authn.Logout(ctx)}
	}
}

func (m *mainModel) View() string {
	var b strings.Builder

	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if i == m.tab {
			tabs[i] = m.styles.ActiveTab.Render(label)
		} else {
			tabs[i] = m.styles.Tab.Render(label)
		}
	}
	who := "Guest"
	if !m.identity.Guest && m.identity.Username != "" {
		who = m.identity.Username
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("  " + m.styles.Muted.Render(who))
	b.WriteString("\n\n")

	var help []string
	switch {
	case m.detail != nil:
		b.WriteString(m.detail.View())
		help = []string{"esc", "back", "a", "add"}
	case m.tab == tabDiscover:
		b.WriteString(m.discover.View())
		help = []string{"↑/↓", "move", "enter", "details", "g", "sections/genres", "a", "add", "r", "refresh"}
	case m.tab == tabSearch:
		b.WriteString(m.search.View())
		help = []string{"/", "search", "tab", "movies/tv", "n", "next page", "enter", "details", "a", "add"}
	default:
		b.WriteString(m.watch.View())
		help = []string{"↑/↓", "move", "enter", "details", "d", "remove", "r", "refresh"}
	}

	if m.notice != "" {
		b.WriteString("\n")
		if m.noticeErr {
			b.WriteString(m.styles.Error.Render(m.notice))
		} else {
			b.WriteString(m.styles.Success.Render(m.notice))
		}
	}
	b.WriteString("\n")
	help = append(help, "1-3", "tabs", "ctrl+l", "log out", "q", "quit")
	b.WriteString(m.styles.helpLine(help...))
	return b.String()
}

// addToWatchlist saves e in the background
func addToWatchlist(sh *shared, e watchlist.Entry) tea.Cmd {
	wl, ctx := sh.deps.Watchlist, sh.ctx
	return func() tea.Msg {
		return watchlistChangedMsg{title: e.Title, added: true, err: wl.Add(ctx, e)}
	}
}

// renderEntries renders a selectable list; selected is an index into
// entries or -1
func renderEntries(s Styles, entries []watchlist.Entry, selected int) string {
	var b strings.Builder
	for i, e := range entries {
		line := truncate(e.Title, 48)
		if e.Year > 0 {
			line += fmt.Sprintf(" (%d)", e.Year)
		}
		if e.Rating > 0 {
			line += s.Muted.Render(fmt.Sprintf("  ★ %.1f", e.Rating))
		}
		if i == selected {
			b.WriteString(s.Highlighted.Render("›") + " " + line)
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return b.String()
}
