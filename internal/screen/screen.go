// Package screen tracks authentication, onboarding and which top-level
// screen is showing.
package screen

import (
	"errors"
	"fmt"
	"slices"

	"github.com/smhrd/smartsearch/internal/models"
)

var (
	// ErrNotAuthenticated is returned when a signed-out user tries to leave
	// the login and signup screens
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrOnboardingRequired is returned when a signed-in user tries to skip
	// onboarding
	ErrOnboardingRequired = errors.New("onboarding not completed")
	// ErrUnknownScreen is returned for a screen name outside models.Screen
	ErrUnknownScreen = errors.New("unknown screen")
)

// All lists the screens in navigation order
var All = []models.Screen{
	models.ScreenLogin,
	models.ScreenSignup,
	models.ScreenOnboarding,
	models.ScreenHome,
	models.ScreenChat,
	models.ScreenSettings,
}

// Parse validates a screen name
func Parse(name string) (models.Screen, error) {
	s := models.Screen(name)
	if !slices.Contains(All, s) {
		return "", fmt.Errorf("%w: %s", ErrUnknownScreen, name)
	}
	return s, nil
}

// Navigator is the auth and screen state machine
type Navigator struct {
	authenticated bool
	onboarded     bool
	remember      bool
	current       models.Screen
}

// NewNavigator starts signed out on the login screen. With remember set,
// a completed onboarding survives logout so the next login goes straight
// to home.
func NewNavigator(onboarded, remember bool) *Navigator {
	return &Navigator{
		onboarded: remember && onboarded,
		remember:  remember,
		current:   models.ScreenLogin,
	}
}

// Current returns the screen being shown
func (n *Navigator) Current() models.Screen { return n.current }

// Authenticated reports whether the user is signed in
func (n *Navigator) Authenticated() bool { return n.authenticated }

// Onboarded reports whether onboarding was completed
func (n *Navigator) Onboarded() bool { return n.onboarded }

// Login signs the user in and moves to onboarding
func (n *Navigator) Login() {
	n.authenticated = true
	n.current = n.landing()
}

// Signup behaves like Login
func (n *Navigator) Signup() {
	n.Login()
}

func (n *Navigator) landing() models.Screen {
	if n.onboarded {
		return models.ScreenHome
	}
	return models.ScreenOnboarding
}

// CompleteOnboarding finishes onboarding and moves to home
func (n *Navigator) CompleteOnboarding() {
	n.onboarded = true
	n.current = models.ScreenHome
}

// Logout signs out and returns to login
func (n *Navigator) Logout() {
	n.authenticated = false
	if !n.remember {
		n.onboarded = false
	}
	n.current = models.ScreenLogin
}

// Navigate moves to s when the guards allow it. A refused move leaves the
// current screen unchanged.
func (n *Navigator) Navigate(s models.Screen) error {
	if !slices.Contains(All, s) {
		return fmt.Errorf("%w: %s", ErrUnknownScreen, s)
	}
	if !n.authenticated && s != models.ScreenLogin && s != models.ScreenSignup {
		return fmt.Errorf("cannot open %s: %w", s, ErrNotAuthenticated)
	}
	if n.authenticated && !n.onboarded && s != models.ScreenOnboarding {
		return fmt.Errorf("cannot open %s: %w", s, ErrOnboardingRequired)
	}
	n.current = s
	return nil
}
