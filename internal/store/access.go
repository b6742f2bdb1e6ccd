package store

type Decision string

const (
	// Pending means the authorization check has not completed yet.
	Pending       Decision = "pending"
	Allow         Decision = "allow"
	RedirectLogin Decision = "redirect-login"
	RedirectBack  Decision = "redirect-back"
)

type RouteKind int

const (
	// RouteProtected needs a logged-in user.
	RouteProtected RouteKind = iota
	// RouteAnonymous is only for visitors without a session, e.g. the login page.
	RouteAnonymous
)

// Decide gates a route on a session snapshot. Nothing is decided until the
// authorization flag is true.
func Decide(state SessionState, route RouteKind) Decision {
	if state.Authorized == nil || !*state.Authorized {
		return Pending
	}
	switch {
	case route == RouteAnonymous && state.User != nil:
		return RedirectBack
	case route == RouteProtected && state.User == nil:
		return RedirectLogin
	}
	return Allow
}

func (s *Session) Access(route RouteKind) Decision {
	return Decide(s.state.get(), route)
}
