package wordle

import (
	"errors"
	"fmt"
)

var (
	ErrMetaNotFound       = errors.New("wordle meta record not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrRoundTooFarAhead   = errors.New("round is beyond the next scoring period")
	ErrRolloverInProgress = errors.New("period rollover already in progress")
	ErrNotLoaded          = errors.New("wordle service used before meta was loaded")
	ErrStaleWrite         = errors.New("player record changed since it was read")
)

type InvalidMetaError struct {
	Meta PeriodMeta
}

func (e *InvalidMetaError) Error() string {
	return fmt.Sprintf("invalid wordle meta: period start %d is after current round %d",
		e.Meta.PeriodStartRoundIndex, e.Meta.CurrentRoundIndex)
}

type InvalidPolicyError struct {
	Reason string
}

func (e *InvalidPolicyError) Error() string {
	return "invalid scoring policy: " + e.Reason
}
