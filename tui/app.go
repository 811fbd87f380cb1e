// Package tui is the full-screen terminal UI. The root App owns the session
// navigator and is its presenter: every session event is read from the bus
// inside Update, so screens are only ever swapped on the UI loop.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/s0up4200/cloudmovies/session"
	"github.com/s0up4200/cloudmovies/tmdb"
)

// Default timings
const (
	DefaultSplashDelay = 700 * time.Millisecond
	DefaultTransition  = 300 * time.Millisecond
)

// Options tunes the UI
type Options struct {
	SplashDelay    time.Duration
	Transition     time.Duration
	SkipOnboarding bool
}

// Deps are the services the screens use
type Deps struct {
	Auth      Authenticator
	Browse    tmdb.BrowseAPI
	Watchlist Watchlist
	Recents   RecentSearches // optional
	Settings  session.SettingsStore
	Bus       EventBus
	Logger    zerolog.Logger
}

// shared is handed to every screen
type shared struct {
	ctx    context.Context
	deps   Deps
	styles Styles
	logger zerolog.Logger
}

// screenModel is a sub-model owned by the App
type screenModel interface {
	Update(msg tea.Msg) tea.Cmd
	View() string
}

// App is the root bubbletea model
type App struct {
	*shared
	opts    Options
	nav     *session.Navigator
	spinner spinner.Model

	splash    bool
	presented bool
	screen    session.Screen
	current   screenModel
	fading    bool
	fadeSeq   int
	queued    []tea.Cmd

	status   string
	width    int
	height   int
	quitting bool
}

var _ session.Presenter = (*App)(nil)

// New creates the root model and its navigator
func New(ctx context.Context, deps Deps, opts Options) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	a := &App{
		shared: &shared{
			ctx:    ctx,
			deps:   deps,
			styles: DefaultStyles(),
			logger: deps.Logger.With().Str("component", "tui").Logger(),
		},
		opts:    opts,
		spinner: sp,
		splash:  true,
	}
	a.nav = session.NewNavigator(a, deps.Settings, deps.Logger, session.WithSkipOnboarding(opts.SkipOnboarding))
	return a
}

// Navigator returns the session navigator driven by the App
func (a *App) Navigator() *session.Navigator {
	return a.nav
}

// Present implements session.Presenter. The navigator only calls it from
// within Update, so it can replace the current screen directly; commands
// the new screen needs are queued and returned by Update.
func (a *App) Present(screen session.Screen, animated bool) {
	a.presented = true
	a.screen = screen
	a.status = ""

	switch screen {
	case session.ScreenAuthentication:
		login := newLoginModel(a.shared)
		a.current = login
		a.queue(login.Init())
	case session.ScreenOnboarding:
		a.current = newOnboardingModel(a.shared)
	case session.ScreenMain:
		main := newMainModel(a.shared)
		a.current = main
		a.queue(main.Init())
	}

	a.fading = false
	if animated && a.opts.Transition > 0 {
		a.fading = true
		a.fadeSeq++
		seq := a.fadeSeq
		a.queue(tea.Tick(a.opts.Transition, func(time.Time) tea.Msg {
			return transitionDoneMsg{seq: seq}
		}))
	}
}

func (a *App) queue(cmd tea.Cmd) {
	if cmd != nil {
		a.queued = append(a.queued, cmd)
	}
}

func (a *App) flush() tea.Cmd {
	cmds := a.queued
	a.queued = nil
	return tea.Batch(cmds...)
}

// Init starts the splash timer and begins listening for session events
func (a *App) Init() tea.Cmd {
	splashDone := func() tea.Msg { return splashDoneMsg{} }
	if a.opts.SplashDelay > 0 {
		splashDone = tea.Tick(a.opts.SplashDelay, func(time.Time) tea.Msg { return splashDoneMsg{} })
	}
	return tea.Batch(waitForEvent(a.deps.Bus), a.spinner.Tick, splashDone)
}

// Update handles messages and updates the model state
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.ForceQuit) {
			a.quitting = true
			return a, tea.Quit
		}
		if a.splash || a.current == nil {
			return a, nil
		}
		a.status = ""
		return a, a.current.Update(msg)

	case splashDoneMsg:
		if !a.splash {
			return a, nil
		}
		a.splash = false
		if !a.presented {
			a.nav.Start()
		}
		return a, a.flush()

	case sessionEventMsg:
		if err := a.nav.Handle(msg.event); err != nil {
			a.logger.Error().Err(err).Str("event", msg.event.String()).Msg("Session event failed")
			a.status = err.Error()
			if ob, ok := a.current.(*onboardingModel); ok {
				ob.rearm()
			}
		}
		return a, tea.Batch(a.flush(), waitForEvent(a.deps.Bus))

	case busClosedMsg:
		return a, nil

	case transitionDoneMsg:
		if msg.seq == a.fadeSeq {
			a.fading = false
		}
		return a, nil

	case spinner.TickMsg:
		if !a.splash {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	if a.current != nil {
		return a, a.current.Update(msg)
	}
	return a, nil
}

// View renders the current screen
func (a *App) View() string {
	if a.quitting {
		return ""
	}
	if a.splash || a.current == nil {
		return a.renderSplash()
	}

	body := a.current.View()
	if a.status != "" {
		body += "\n" + a.styles.Error.Render("✗ "+a.status)
	}
	if a.fading {
		body = a.styles.Faded.Render(body)
	}
	return body
}

func (a *App) renderSplash() string {
	logo := a.styles.Logo.Render("CloudMovies")
	view := lipgloss.JoinVertical(lipgloss.Center, logo, "", a.spinner.View())
	if a.width > 0 && a.height > 0 {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, view)
	}
	return view
}

// Screen returns the presented screen and whether anything was presented
func (a *App) Screen() (session.Screen, bool) {
	return a.screen, a.presented
}

// truncate shortens s to n runes
func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
