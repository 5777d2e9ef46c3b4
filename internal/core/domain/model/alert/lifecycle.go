package alert

import (
	"fmt"

	"fleetwise/internal/pkg/errs"
)

// Lifecycle is the state of an alert.
type Lifecycle int

const (
	LifecycleUnknown Lifecycle = iota
	Active
	Acknowledged
	Cleared
)

var lifecycleCodes = map[Lifecycle]string{
	Active:       "active",
	Acknowledged: "acknowledged",
	Cleared:      "cleared",
}

// ParseLifecycle restores a lifecycle from its storage code.
func ParseLifecycle(code string) (Lifecycle, error) {
	for l, c := range lifecycleCodes {
		if c == code {
			return l, nil
		}
	}
	return LifecycleUnknown, errs.NewValueIsInvalidErrorWithCause(
		"alert status is invalid",
		fmt.Errorf("%q is not a known alert status", code),
	)
}

func (l Lifecycle) String() string {
	if c, ok := lifecycleCodes[l]; ok {
		return c
	}
	return "unknown"
}

func (l Lifecycle) Validate() error {
	if _, ok := lifecycleCodes[l]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("alert status is invalid", fmt.Errorf("%d is not a valid alert status", l))
	}
	return nil
}
