package domain

import (
	"strings"
	"time"
)

// Action records one state transition, named the way the storefront's
// reducers name them: "<slice>/<operation>[/<phase>]".
type Action struct {
	Type    string    `json:"type"`
	Payload any       `json:"payload,omitempty"`
	At      time.Time `json:"at"`
}

const (
	PhasePending   = "pending"
	PhaseFulfilled = "fulfilled"
	PhaseRejected  = "rejected"
)

func (a Action) Slice() string {
	slice, _, _ := strings.Cut(a.Type, "/")
	return slice
}

// Operation returns the middle segment, e.g. "login" for "user/login/rejected".
func (a Action) Operation() string {
	parts := strings.Split(a.Type, "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// Phase returns the async phase of the action or "" for synchronous ones.
func (a Action) Phase() string {
	parts := strings.Split(a.Type, "/")
	if len(parts) < 3 {
		return ""
	}
	switch last := parts[len(parts)-1]; last {
	case PhasePending, PhaseFulfilled, PhaseRejected:
		return last
	}
	return ""
}
