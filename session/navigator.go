package session

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Presenter performs the actual swap of the root screen, including any
// transition animation.
type Presenter interface {
	Present(screen Screen, animated bool)
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(screen Screen, animated bool)

// Present calls f(screen, animated)
func (f PresenterFunc) Present(screen Screen, animated bool) {
	f(screen, animated)
}

// SettingsStore is the durable store owning the HasOnboarded flag.
type SettingsStore interface {
	HasOnboarded() (bool, error)
	SetHasOnboarded(v bool) error
}

// Change describes a committed transition.
type Change struct {
	From  State
	To    State
	Event Event
}

// Navigator holds the process-wide session state and applies events to it.
type Navigator struct {
	presenter      Presenter
	store          SettingsStore
	logger         zerolog.Logger
	skipOnboarding bool

	mu        sync.Mutex
	state     State
	observers []func(Change)
}

// Option configures a Navigator
type Option func(*Navigator)

// WithSkipOnboarding sends users that already onboarded straight to the
// main screen after login.
func WithSkipOnboarding(skip bool) Option {
	return func(n *Navigator) {
		n.skipOnboarding = skip
	}
}

// NewNavigator creates a navigator in the LoggedOut state.
func NewNavigator(presenter Presenter, store SettingsStore, logger zerolog.Logger, opts ...Option) *Navigator {
	n := &Navigator{
		presenter: presenter,
		store:     store,
		logger:    logger.With().Str("component", "navigator").Logger(),
		state:     LoggedOut,
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// State returns the current state
func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Subscribe registers fn to be called after every committed transition.
// Observers run synchronously on the goroutine that handled the event and
// must not call back into the navigator.
func (n *Navigator) Subscribe(fn func(Change)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.observers = append(n.observers, fn)
}

// Start performs the initial presentation of the screen matching the
// current state. It is called once, after the splash screen.
func (n *Navigator) Start() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.logger.Debug().Str("state", n.state.String()).Msg("Presenting initial screen")
	n.presenter.Present(ScreenFor(n.state), false)
}

// HandleLoginSucceeded applies a LoginSucceeded event.
func (n *Navigator) HandleLoginSucceeded() error {
	return n.Handle(LoginSucceeded)
}

// HandleOnboardingFinished applies an OnboardingFinished event. The
// HasOnboarded flag is persisted before the main screen is presented.
func (n *Navigator) HandleOnboardingFinished() error {
	return n.Handle(OnboardingFinished)
}

// HandleLogoutRequested applies a LogoutRequested event. It is accepted in
// every state; from LoggedOut it re-presents the authentication screen.
func (n *Navigator) HandleLogoutRequested() error {
	return n.Handle(LogoutRequested)
}

// Handle applies e. If persisting the onboarding flag fails, the state is
// left unchanged, nothing is presented and the error is returned.
func (n *Navigator) Handle(e Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	env := Env{SkipOnboarding: n.skipOnboarding}
	if e == LoginSucceeded && n.skipOnboarding {
		onboarded, err := n.store.HasOnboarded()
		if err != nil {
			n.logger.Warn().Err(err).Msg("Failed to read onboarding flag, showing onboarding")
		}
		env.HasOnboarded = onboarded && err == nil
	}

	from := n.state
	to, effects := Transition(from, e, env)
	if len(effects) == 0 {
		n.logger.Debug().
			Str("state", from.String()).
			Str("event", e.String()).
			Msg("Ignoring event with no transition")
		return nil
	}

	// Persisting effects come first; run them all before touching the
	// state or the screen.
	for _, eff := range effects {
		if eff.Kind != EffectPersistOnboarded {
			continue
		}
		if err := n.store.SetHasOnboarded(true); err != nil {
			return fmt.Errorf("failed to persist onboarding flag: %w", err)
		}
	}

	n.state = to
	for _, eff := range effects {
		if eff.Kind == EffectPresent {
			n.presenter.Present(eff.Screen, eff.Animated)
		}
	}

	n.logger.Info().
		Str("from", from.String()).
		Str("to", to.String()).
		Str("event", e.String()).
		Msg("Session transition")

	change := Change{From: from, To: to, Event: e}
	for _, fn := range n.observers {
		fn(change)
	}

	return nil
}
