package session

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type presentCall struct {
	screen   Screen
	animated bool
}

// mockPresenter records every presentation
type mockPresenter struct {
	calls []presentCall
}

func (m *mockPresenter) Present(screen Screen, animated bool) {
	m.calls = append(m.calls, presentCall{screen: screen, animated: animated})
}

func (m *mockPresenter) last() presentCall {
	return m.calls[len(m.calls)-1]
}

// mockStore is an in-memory SettingsStore
type mockStore struct {
	onboarded bool
	setErr    error
	getErr    error
	setCalls  int
}

func (m *mockStore) HasOnboarded() (bool, error) {
	return m.onboarded, m.getErr
}

func (m *mockStore) SetHasOnboarded(v bool) error {
	m.setCalls++
	if m.setErr != nil {
		return m.setErr
	}
	m.onboarded = v
	return nil
}

func newTestNavigator(opts ...Option) (*Navigator, *mockPresenter, *mockStore) {
	p := &mockPresenter{}
	s := &mockStore{}
	return NewNavigator(p, s, zerolog.Nop(), opts...), p, s
}

func TestNavigator_InitialState(t *testing.T) {
	nav, p, _ := newTestNavigator()
	assert.Equal(t, LoggedOut, nav.State())
	assert.Empty(t, p.calls)

	nav.Start()
	require.Len(t, p.calls, 1)
	assert.Equal(t, presentCall{ScreenAuthentication, false}, p.calls[0])
}

func TestNavigator_LoginShowsOnboarding(t *testing.T) {
	nav, p, _ := newTestNavigator()

	require.NoError(t, nav.HandleLoginSucceeded())
	assert.Equal(t, OnboardingPending, nav.State())
	require.Len(t, p.calls, 1)
	assert.Equal(t, presentCall{ScreenOnboarding, true}, p.calls[0])
}

func TestNavigator_OnboardingFinishedShowsMain(t *testing.T) {
	nav, p, s := newTestNavigator()
	require.NoError(t, nav.HandleLoginSucceeded())

	require.NoError(t, nav.HandleOnboardingFinished())
	assert.Equal(t, Active, nav.State())
	assert.True(t, s.onboarded)
	assert.Equal(t, presentCall{ScreenMain, true}, p.last())
}

func TestNavigator_LogoutKeepsFlag(t *testing.T) {
	nav, p, s := newTestNavigator()
	require.NoError(t, nav.HandleLoginSucceeded())
	require.NoError(t, nav.HandleOnboardingFinished())

	require.NoError(t, nav.HandleLogoutRequested())
	assert.Equal(t, LoggedOut, nav.State())
	assert.Equal(t, presentCall{ScreenAuthentication, true}, p.last())
	assert.True(t, s.onboarded)
}

func TestNavigator_LogoutBeforeOnboarding(t *testing.T) {
	nav, _, s := newTestNavigator()

	require.NoError(t, nav.HandleLoginSucceeded())
	require.NoError(t, nav.HandleLogoutRequested())
	assert.Equal(t, LoggedOut, nav.State())
	assert.False(t, s.onboarded)
	assert.Zero(t, s.setCalls)
}

func TestNavigator_LogoutFromEveryStateIsIdempotent(t *testing.T) {
	setups := map[State][]Event{
		LoggedOut:         nil,
		OnboardingPending: {LoginSucceeded},
		Active:            {LoginSucceeded, OnboardingFinished},
	}

	for start, events := range setups {
		t.Run(start.String(), func(t *testing.T) {
			nav, p, _ := newTestNavigator()
			for _, e := range events {
				require.NoError(t, nav.Handle(e))
			}
			require.Equal(t, start, nav.State())

			require.NoError(t, nav.HandleLogoutRequested())
			require.NoError(t, nav.HandleLogoutRequested())

			assert.Equal(t, LoggedOut, nav.State())
			n := len(p.calls)
			assert.Equal(t, presentCall{ScreenAuthentication, true}, p.calls[n-1])
			assert.Equal(t, presentCall{ScreenAuthentication, true}, p.calls[n-2])
		})
	}
}

func TestNavigator_UnexpectedEventsAreNoOps(t *testing.T) {
	nav, p, s := newTestNavigator()

	// OnboardingFinished while logged out
	require.NoError(t, nav.HandleOnboardingFinished())
	assert.Equal(t, LoggedOut, nav.State())
	assert.Empty(t, p.calls)
	assert.False(t, s.onboarded)

	// double login
	require.NoError(t, nav.HandleLoginSucceeded())
	require.NoError(t, nav.HandleLoginSucceeded())
	assert.Equal(t, OnboardingPending, nav.State())
	assert.Len(t, p.calls, 1)

	// double close of onboarding
	require.NoError(t, nav.HandleOnboardingFinished())
	require.NoError(t, nav.HandleOnboardingFinished())
	assert.Equal(t, Active, nav.State())
	assert.Len(t, p.calls, 2)
	assert.Equal(t, 1, s.setCalls)
}

func TestNavigator_PersistFailureKeepsState(t *testing.T) {
	nav, p, s := newTestNavigator()
	require.NoError(t, nav.HandleLoginSucceeded())

	s.setErr = errors.New("disk full")
	err := nav.HandleOnboardingFinished()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, OnboardingPending, nav.State())
	assert.Equal(t, presentCall{ScreenOnboarding, true}, p.last())

	s.setErr = nil
	require.NoError(t, nav.HandleOnboardingFinished())
	assert.Equal(t, Active, nav.State())
}

func TestNavigator_SkipOnboarding(t *testing.T) {
	t.Run("already onboarded", func(t *testing.T) {
		nav, p, s := newTestNavigator(WithSkipOnboarding(true))
		s.onboarded = true

		require.NoError(t, nav.HandleLoginSucceeded())
		assert.Equal(t, Active, nav.State())
		assert.Equal(t, presentCall{ScreenMain, true}, p.last())
	})

	t.Run("fresh install", func(t *testing.T) {
		nav, p, _ := newTestNavigator(WithSkipOnboarding(true))

		require.NoError(t, nav.HandleLoginSucceeded())
		assert.Equal(t, OnboardingPending, nav.State())
		assert.Equal(t, presentCall{ScreenOnboarding, true}, p.last())
	})

	t.Run("unreadable flag shows onboarding", func(t *testing.T) {
		nav, _, s := newTestNavigator(WithSkipOnboarding(true))
		s.onboarded = true
		s.getErr = errors.New("corrupt")

		require.NoError(t, nav.HandleLoginSucceeded())
		assert.Equal(t, OnboardingPending, nav.State())
	})

	t.Run("disabled shows onboarding every login", func(t *testing.T) {
		nav, _, s := newTestNavigator()
		s.onboarded = true

		require.NoError(t, nav.HandleLoginSucceeded())
		assert.Equal(t, OnboardingPending, nav.State())
	})
}

func TestNavigator_Subscribe(t *testing.T) {
	nav, _, _ := newTestNavigator()

	var changes []Change
	nav.Subscribe(func(c Change) { changes = append(changes, c) })

	require.NoError(t, nav.HandleLoginSucceeded())
	require.NoError(t, nav.HandleLoginSucceeded()) // no-op, not observed
	require.NoError(t, nav.HandleLogoutRequested())

	require.Len(t, changes, 2)
	assert.Equal(t, Change{From: LoggedOut, To: OnboardingPending, Event: LoginSucceeded}, changes[0])
	assert.Equal(t, Change{From: OnboardingPending, To: LoggedOut, Event: LogoutRequested}, changes[1])
}

func TestNavigator_PresenterFunc(t *testing.T) {
	var got []Screen
	nav := NewNavigator(PresenterFunc(func(s Screen, _ bool) { got = append(got, s) }), &mockStore{}, zerolog.Nop())

	require.NoError(t, nav.HandleLoginSucceeded())
	require.NoError(t, nav.HandleOnboardingFinished())
	assert.Equal(t, []Screen{ScreenOnboarding, ScreenMain}, got)
}

// The presenter's screen must match the state after every event sequence.
func TestNavigator_ScreenAlwaysMatchesState(t *testing.T) {
	events := []Event{LoginSucceeded, OnboardingFinished, LogoutRequested}

	// every sequence of length 4 over the three events
	var walk func(prefix []Event)
	walk = func(prefix []Event) {
		if len(prefix) == 4 {
			nav, p, s := newTestNavigator()
			nav.Start()
			wasOnboarded := false
			for _, e := range prefix {
				require.NoError(t, nav.Handle(e))
				assert.Equal(t, ScreenFor(nav.State()), p.last().screen, "sequence %v", prefix)
				if wasOnboarded {
					assert.True(t, s.onboarded, "flag reverted in sequence %v", prefix)
				}
				wasOnboarded = s.onboarded
			}
			return
		}
		for _, e := range events {
			walk(append(append([]Event{}, prefix...), e))
		}
	}
	walk(nil)
}
