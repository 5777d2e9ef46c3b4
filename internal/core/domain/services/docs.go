// Package services provides domain services whose logic spans more than one
// aggregate or needs collaborators the aggregates should not know about.
//
// The package includes:
//   - OverdueDetector: selects confirmed jobs whose alert window is open
//
// Services here are pure: callers pass the current instant and the live
// configuration, and nothing is read from or written to storage.
package services
