package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/s0up4200/cloudmovies/session"
)

type onboardingPage struct {
	title string
	body  string
}

var onboardingPages = []onboardingPage{
	{
		title: "Discover",
		body:  "Browse what is popular, playing now, upcoming and top rated,\nfor movies and TV shows alike.",
	},
	{
		title: "Search",
		body:  "Look up any movie or TV show by title and page through the results.\nPress tab to switch between movies and TV.",
	},
	{
		title: "Watchlist",
		body:  "Press a on anything to save it for later.\nSigned-in users get their list synced with their TMDB account.",
	},
}

// onboardingModel shows the instructional pages after login unless
// session.skip_onboarding is set
type onboardingModel struct {
	*shared
	page     int
	finished bool
}

func newOnboardingModel(sh *shared) *onboardingModel {
	return &onboardingModel{shared: sh}
}

func (m *onboardingModel) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.finished {
		return nil
	}

	last := len(onboardingPages) - 1
	switch {
	case key.Matches(keyMsg, keys.Quit):
		return tea.Quit
	case key.Matches(keyMsg, keys.Right):
		if m.page < last {
			m.page++
		}
	case key.Matches(keyMsg, keys.Left):
		if m.page > 0 {
			m.page--
		}
	case key.Matches(keyMsg, keys.Enter):
		if m.page < last {
			m.page++
			return nil
		}
		m.finish()
	case key.Matches(keyMsg, keys.Back):
		m.finish()
	}
	return nil
}

func (m *onboardingModel) finish() {
	m.finished = true
	m.deps.Bus.Publish(session.OnboardingFinished)
}

// rearm lets the user finish again after the flag could not be saved
func (m *onboardingModel) rearm() {
	m.finished = false
}

func (m *onboardingModel) View() string {
	p := onboardingPages[m.page]

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(p.title))
	b.WriteString("\n")
	b.WriteString(p.body)
	b.WriteString("\n\n")

	dots := make([]string, len(onboardingPages))
	for i := range onboardingPages {
		if i == m.page {
			dots[i] = m.styles.Key.Render("●")
		} else {
			dots[i] = m.styles.Muted.Render("○")
		}
	}
	b.WriteString(strings.Join(dots, " "))
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  %d/%d", m.page+1, len(onboardingPages))))
	b.WriteString("\n")

	next := "next"
	if m.page == len(onboardingPages)-1 {
		next = "get started"
	}
	b.WriteString(m.styles.helpLine("←/→", "page", "enter", next, "esc", "close"))

	return m.styles.Border.Render(b.String())
}
