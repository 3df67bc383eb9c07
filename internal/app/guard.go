// Package app maps session state to navigation: which views may render and
// where blocked navigation is redirected.
package app

type Route string

const (
	RouteLogin    Route = "/login"
	RouteRegister Route = "/register"
	RouteFeed     Route = "/"
	RouteProfile  Route = "/profile"
)

type Decision int

const (
	// ShowLoading means the identity check has not resolved yet.
	ShowLoading Decision = iota
	Render
	Redirect
)

type Verdict struct {
	Decision Decision
	Target   Route
}

// SessionState is the slice of the session the guards depend on.
type SessionState interface {
	Loading() bool
	IsAuthenticated() bool
}

// Protected gates views that need an identity: render when authenticated,
// otherwise send the viewer to login.
func Protected(s SessionState) Verdict {
	if s.Loading() {
		return Verdict{Decision: ShowLoading}
	}
	if s.IsAuthenticated() {
		return Verdict{Decision: Render}
	}
	return Verdict{Decision: Redirect, Target: RouteLogin}
}

// Public is the inverse: authenticated sessions are sent away from the
// login/registration views to the feed.
func Public(s SessionState) Verdict {
	if s.Loading() {
		return Verdict{Decision: ShowLoading}
	}
	if s.IsAuthenticated() {
		return Verdict{Decision: Redirect, Target: RouteFeed}
	}
	return Verdict{Decision: Render}
}

// Resolve applies the right policy for a route. Unknown routes fall through
// to the feed.
func Resolve(route Route, s SessionState) Verdict {
	switch route {
	case RouteLogin, RouteRegister:
		return Public(s)
	case RouteFeed, RouteProfile:
		return Protected(s)
	default:
		return Verdict{Decision: Redirect, Target: RouteFeed}
	}
}
