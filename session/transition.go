package session

// EffectKind identifies a side effect requested by Transition.
type EffectKind int

const (
	// EffectPersistOnboarded durably records HasOnboarded = true
	EffectPersistOnboarded EffectKind = iota + 1
	// EffectPresent asks the presenter to swap the root screen
	EffectPresent
)

// Effect is a side-effect command returned by Transition.
type Effect struct {
	Kind     EffectKind
	Screen   Screen
	Animated bool
}

// Present builds a presentation effect.
func Present(screen Screen, animated bool) Effect {
	return Effect{Kind: EffectPresent, Screen: screen, Animated: animated}
}

// PersistOnboarded builds the effect that stores HasOnboarded = true.
func PersistOnboarded() Effect {
	return Effect{Kind: EffectPersistOnboarded}
}

// Env carries the inputs Transition may consult besides state and event.
type Env struct {
	// HasOnboarded is the current value of the durable flag
	HasOnboarded bool
	// SkipOnboarding sends a login straight to the main screen when the
	// user has onboarded before
	SkipOnboarding bool
}

// Transition computes the next state and the effects for event e.
// Events with no defined transition return the current state and no
// effects. Persisting effects always precede the presentation effect.
func Transition(current State, e Event, env Env) (State, []Effect) {
	switch e {
	case LoginSucceeded:
		if current != LoggedOut {
			return current, nil
		}
		if env.SkipOnboarding && env.HasOnboarded {
			return Active, []Effect{Present(ScreenMain, true)}
		}
		return OnboardingPending, []Effect{Present(ScreenOnboarding, true)}

	case OnboardingFinished:
		if current != OnboardingPending {
			return current, nil
		}
		return Active, []Effect{PersistOnboarded(), Present(ScreenMain, true)}

	case LogoutRequested:
		return LoggedOut, []Effect{Present(ScreenAuthentication, true)}
	}

	return current, nil
}
