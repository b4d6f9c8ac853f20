package session

import (
	"github.com/M7HZ/bright-clinic/models"
)

type Decision int

const (
	// DecisionWait means the session state is still unknown; render
	// nothing and do not redirect. Redirecting here flickers resolved
	// users through the login surface.
	DecisionWait Decision = iota
	DecisionAllow
	DecisionRedirect
)

func (d Decision) String() string {
	switch d {
	case DecisionWait:
		return "wait"
	case DecisionAllow:
		return "allow"
	case DecisionRedirect:
		return "redirect"
	}
	return "unknown"
}

// Verdict carries the guard decision; RedirectTo is set only for
// DecisionRedirect and names the login surface for the required role.
type Verdict struct {
	Decision   Decision
	RedirectTo string
}

// Decide is the route guard for a protected view. Pure and
// deterministic: no I/O, no clock.
func Decide(st State, required models.AppRole) Verdict {
	if st.Loading {
		return Verdict{Decision: DecisionWait}
	}
	if st.User == nil || st.Role != required {
		return Verdict{Decision: DecisionRedirect, RedirectTo: required.LoginRoute()}
	}
	return Verdict{Decision: DecisionAllow}
}
