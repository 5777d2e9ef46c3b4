// Package kernel provides the value objects shared by every aggregate of the
// dispatch domain.
//
// The package includes:
//   - UUID: identity of jobs, drivers, users, audit records and alerts
//   - PickupSchedule: the local calendar date and time-of-day a job is booked
//     for, resolved to an instant through the display timezone
//
// Both are immutable and safe for concurrent use.
package kernel
