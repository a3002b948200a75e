package domain

import (
	"fmt"
	"strings"
)

// Screen is the view a session is currently allowed to show.
type Screen string

const (
	ScreenLanding        Screen = "LANDING"
	ScreenAuth           Screen = "AUTH"
	ScreenDestination    Screen = "DESTINATION"
	ScreenMerchants      Screen = "MERCHANTS"
	ScreenMerchantDetail Screen = "MERCHANT_DETAIL"
	ScreenTracking       Screen = "TRACKING"
	ScreenUnlock         Screen = "UNLOCK"
)

var screens = []Screen{
	ScreenLanding,
	ScreenAuth,
	ScreenDestination,
	ScreenMerchants,
	ScreenMerchantDetail,
	ScreenTracking,
	ScreenUnlock,
}

// Screens lists every screen in flow order.
func Screens() []Screen {
	return append([]Screen(nil), screens...)
}

// Valid reports whether s is a known screen.
func (s Screen) Valid() bool {
	for _, sc := range screens {
		if sc == s {
			return true
		}
	}
	return false
}

// ParseScreen accepts a screen name in any case.
func ParseScreen(name string) (Screen, error) {
	s := Screen(strings.ToUpper(strings.TrimSpace(name)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownScreen, name)
	}
	return s, nil
}
