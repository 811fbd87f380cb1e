// Package session decides which top-level screen the application shows.
//
// The navigator is a three-state machine driven by events raised by the
// authenticator, the onboarding flow and the logout broadcast:
//
//	LoggedOut --LoginSucceeded--> OnboardingPending --OnboardingFinished--> Active
//	    ^                                                                      |
//	    +------------------------------LogoutRequested--------------------------+
//
// Transition is a pure function returning the next state plus the effects
// to run; Navigator executes those effects against a Presenter and a
// SettingsStore.
package session

// State is the current top-level screen category.
type State int

const (
	// LoggedOut is the initial state; the authentication screen is shown
	LoggedOut State = iota
	// OnboardingPending means a login happened and onboarding is on screen
	OnboardingPending
	// Active means the main tabbed screen is on screen
	Active
)

// String returns the string representation of a State
func (s State) String() string {
	switch s {
	case LoggedOut:
		return "logged_out"
	case OnboardingPending:
		return "onboarding_pending"
	case Active:
		return "active"
	default:
		return "unknown"
	}
}

// Screen identifies a top-level screen the presenter can show.
type Screen int

const (
	ScreenAuthentication Screen = iota
	ScreenOnboarding
	ScreenMain
)

func (s Screen) String() string {
	switch s {
	case ScreenAuthentication:
		return "authentication"
	case ScreenOnboarding:
		return "onboarding"
	case ScreenMain:
		return "main"
	default:
		return "unknown"
	}
}

// ScreenFor returns the screen that must be displayed while in state s.
func ScreenFor(s State) Screen {
	switch s {
	case OnboardingPending:
		return ScreenOnboarding
	case Active:
		return ScreenMain
	default:
		return ScreenAuthentication
	}
}

// Event is something that happened outside the navigator.
type Event int

const (
	// LoginSucceeded is raised by the authenticator after a successful login
	LoginSucceeded Event = iota + 1
	// OnboardingFinished is raised by the onboarding flow when it is closed
	OnboardingFinished
	// LogoutRequested may be raised from anywhere in the application
	LogoutRequested
)

func (e Event) String() string {
	switch e {
	case LoginSucceeded:
		return "login_succeeded"
	case OnboardingFinished:
		return "onboarding_finished"
	case LogoutRequested:
		return "logout_requested"
	default:
		return "unknown"
	}
}
