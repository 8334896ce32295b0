package view

import (
	"errors"
	"fmt"
)

// MutationState tracks an optimistic update.
type MutationState int

const (
	MutationPending MutationState = iota
	MutationCommitted
	MutationFailed
)

func (s MutationState) String() string {
	switch s {
	case MutationPending:
		return "pending"
	case MutationCommitted:
		return "committed"
	case MutationFailed:
		return "failed"
	}
	return fmt.Sprintf("MutationState(%d)", int(s))
}

// ErrNotPending is returned when a settled mutation is settled again.
var ErrNotPending = errors.New("mutation already settled")

// Mutation records an optimistic status change of one row so that it can be
// undone exactly. S is a status type such as model.LoanStatus.
type Mutation[S comparable] struct {
	Target int64
	From   S
	To     S
	State  MutationState
}

// Begin starts a mutation of row target from -> to. The caller applies To to
// its local copy right away.
func Begin[S comparable](target int64, from, to S) *Mutation[S] {
	return &Mutation[S]{Target: target, From: from, To: to, State: MutationPending}
}

// Commit marks the mutation confirmed by the backend.
func (m *Mutation[S]) Commit() error {
	if m.State != MutationPending {
		return ErrNotPending
	}
	m.State = MutationCommitted
	return nil
}

// Fail marks the mutation rejected and returns the status to restore.
func (m *Mutation[S]) Fail() (S, error) {
	if m.State != MutationPending {
		var zero S
		return zero, ErrNotPending
	}
	m.State = MutationFailed
	return m.From, nil
}
