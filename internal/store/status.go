package store

import "burger-storefront/internal/domain"

type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// AsyncState tracks one request family. Error is nil unless Status is failed.
type AsyncState struct {
	Status Status          `json:"status"`
	Error  *domain.Failure `json:"error,omitempty"`
}

func (s AsyncState) IsLoading() bool {
	return s.Status == StatusPending
}

func idleState() AsyncState {
	return AsyncState{Status: StatusIdle}
}

func pendingState() AsyncState {
	return AsyncState{Status: StatusPending}
}

func succeededState() AsyncState {
	return AsyncState{Status: StatusSucceeded}
}

func failedState(failure *domain.Failure) AsyncState {
	return AsyncState{Status: StatusFailed, Error: failure}
}
