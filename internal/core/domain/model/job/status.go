package job

import (
	"fmt"
	"slices"
	"strings"

	"fleetwise/internal/pkg/errs"
)

// Status is the operational state of a job. It is a value object that knows
// which statuses may follow it and how it is persisted.
//
// Transition graph:
//
//	NEW ─────────┬──> PENDING ──> CONFIRMED
//	             └──────────────> CONFIRMED
//	CONFIRMED ──────> EN_ROUTE | ON_SITE | PASSENGER_ABOARD | STOOD_DOWN | COMPLETED
//	EN_ROUTE ───────> ON_SITE | PASSENGER_ABOARD | STOOD_DOWN | COMPLETED
//	ON_SITE ────────> PASSENGER_ABOARD | STOOD_DOWN | COMPLETED
//	PASSENGER_ABOARD> STOOD_DOWN | COMPLETED
//	COMPLETED ──────> STOOD_DOWN
//	STOOD_DOWN, CANCELED: terminal
type Status int

const (
	// Unknown catches zero-valued and unparseable statuses.
	Unknown Status = iota

	// New is the status a job is created in.
	New

	// Pending means the job waits for operator confirmation.
	Pending

	// Confirmed jobs are scheduled and watched by the overdue monitor.
	Confirmed

	// EnRoute means the driver is on the way to the pickup point.
	EnRoute

	// OnSite means the driver has arrived at the pickup point.
	OnSite

	// PassengerAboard means the passenger has been picked up.
	PassengerAboard

	// Completed means the trip finished. It can still be stood down afterwards.
	Completed

	// StoodDown means the job was called off by the operator. Terminal.
	StoodDown

	// Canceled is only reachable through cancellation. Terminal.
	Canceled
)

type statusInfo struct {
	name string
	code string
}

// statuses maps each valid status to its display name and its storage code.
// Storage codes are the values kept in the jobs table and the audit trail.
var statuses = map[Status]statusInfo{
	New:             {name: "NEW", code: "new"},
	Pending:         {name: "PENDING", code: "pending"},
	Confirmed:       {name: "CONFIRMED", code: "confirmed"},
	EnRoute:         {name: "EN_ROUTE", code: "otw"},
	OnSite:          {name: "ON_SITE", code: "ots"},
	PassengerAboard: {name: "PASSENGER_ABOARD", code: "pob"},
	Completed:       {name: "COMPLETED", code: "jc"},
	StoodDown:       {name: "STOOD_DOWN", code: "sd"},
	Canceled:        {name: "CANCELED", code: "canceled"},
}

// transitions is the fixed graph of allowed moves. Terminal statuses have no entry.
var transitions = map[Status][]Status{
	New:             {Pending, Confirmed},
	Pending:         {Confirmed},
	Confirmed:       {EnRoute, OnSite, PassengerAboard, StoodDown, Completed},
	EnRoute:         {OnSite, PassengerAboard, StoodDown, Completed},
	OnSite:          {PassengerAboard, StoodDown, Completed},
	PassengerAboard: {StoodDown, Completed},
	Completed:       {StoodDown},
}

// All returns every valid status in lifecycle order.
func All() []Status {
	return []Status{New, Pending, Confirmed, EnRoute, OnSite, PassengerAboard, Completed, StoodDown, Canceled}
}

// ParseStatus accepts either a display name ("EN_ROUTE") or a storage code
// ("otw"), case-insensitively.
func ParseStatus(value string) (Status, error) {
	needle := strings.TrimSpace(value)
	for status, info := range statuses {
		if strings.EqualFold(needle, info.name) || strings.EqualFold(needle, info.code) {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%q is not a known job status", value),
	)
}

// StatusFromCode restores a status from its storage code.
func StatusFromCode(code string) (Status, error) {
	for status, info := range statuses {
		if info.code == code {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%q is not a stored job status", code),
	)
}

// Validate reports whether s is a member of the closed status set.
func (s Status) Validate() error {
	if _, ok := statuses[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the display name, or "UNKNOWN" for invalid values.
func (s Status) String() string {
	if info, ok := statuses[s]; ok {
		return info.name
	}
	return "UNKNOWN"
}

// Code returns the storage code, or an empty string for invalid values.
func (s Status) Code() string {
	return statuses[s].code
}

// CanTransitionTo reports whether the graph has an edge from s to next.
// It is a pure lookup and is safe to call with invalid values.
func (s Status) CanTransitionTo(next Status) bool {
	return slices.Contains(transitions[s], next)
}

// AllowedNext returns the statuses s may move to, in graph order.
func (s Status) AllowedNext() []Status {
	return slices.Clone(transitions[s])
}

// IsTerminal reports whether no transition may leave s.
func (s Status) IsTerminal() bool {
	return s == StoodDown || s == Canceled
}

// IsReachable reports whether s is the target of at least one edge, that is,
// whether a transition request may name it. NEW and CANCELED are not.
func (s Status) IsReachable() bool {
	for _, targets := range transitions {
		if slices.Contains(targets, s) {
			return true
		}
	}
	return false
}

// HasStarted reports whether a job in s is under way or done, which retires
// any pending overdue alert for it.
func (s Status) HasStarted() bool {
	switch s {
	case EnRoute, OnSite, PassengerAboard, Completed, StoodDown:
		return true
	default:
		return false
	}
}

// MarksStart reports whether entering s records the job's start time.
func (s Status) MarksStart() bool {
	return s == EnRoute || s == OnSite || s == PassengerAboard
}

// MarksEnd reports whether entering s records the job's end time.
func (s Status) MarksEnd() bool {
	return s == Completed || s == StoodDown
}

// ValidateTransition returns nil when s may move to next.
func (s Status) ValidateTransition(next Status) error {
	if err := next.Validate(); err != nil {
		return err
	}
	if s.IsTerminal() {
		return fmt.Errorf("%w: %s is terminal", ErrStatusIsTerminal, s)
	}
	if !s.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, s, next)
	}
	return nil
}
