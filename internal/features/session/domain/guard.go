package domain

// Guard returns s with its screen corrected for the current state.
// It runs after every mutation; Guard(Guard(s)) == Guard(s).
//
//   - MERCHANT_DETAIL without a selected merchant falls back to MERCHANTS.
//   - TRACKING or UNLOCK without an order falls back to MERCHANTS.
//   - Any screen but LANDING without a user becomes AUTH.
//   - A user without a complete destination is held on DESTINATION
//     unless already on AUTH or DESTINATION.
func Guard(s Session) Session {
	if !s.Screen.Valid() {
		s.Screen = ScreenLanding
	}

	switch s.Screen {
	case ScreenMerchantDetail:
		if s.SelectedMerchantID == "" {
			s.Screen = ScreenMerchants
		}
	case ScreenTracking, ScreenUnlock:
		if s.Order == nil {
			s.Screen = ScreenMerchants
		}
	}

	if !s.Authenticated() {
		if s.Screen != ScreenLanding {
			s.Screen = ScreenAuth
		}
		return s
	}

	if !s.DestinationComplete() && s.Screen != ScreenAuth && s.Screen != ScreenDestination {
		s.Screen = ScreenDestination
	}
	return s
}

// CanEnter reports whether an explicit navigation to target is allowed.
// Entering UNLOCK additionally needs the order to be delivered.
func CanEnter(s Session, target Screen) bool {
	switch target {
	case ScreenMerchantDetail:
		return s.SelectedMerchantID != ""
	case ScreenTracking:
		return s.Order != nil
	case ScreenUnlock:
		return s.Order.Delivered()
	default:
		return target.Valid()
	}
}

// Reachable lists the screens a navigation intent would actually land on.
// Clients use it to disable controls instead of sending doomed intents.
func Reachable(s Session) []Screen {
	var out []Screen
	for _, target := range screens {
		if !CanEnter(s, target) {
			continue
		}
		next := s
		next.Screen = target
		if Guard(next).Screen == target {
			out = append(out, target)
		}
	}
	return out
}
