// Package job provides the Job aggregate and its lifecycle state machine.
//
// The package includes:
//   - Status: the closed set of operational statuses and the fixed transition
//     graph between them
//   - Job: the aggregate root holding a job's status, pickup schedule,
//     assigned driver and start/end markers
//   - TransitionOutcome: what a single applied (or repeated) transition did
//
// Key business rules:
//   - Status only moves along the edges of the transition graph
//   - STOOD_DOWN and CANCELED are terminal; nothing leaves them
//   - Requesting the current status again is a repeat, not an error
//   - The start marker is set once, on the first move into an en-route status
//   - The end marker is set once, on the first move into a completion status
//   - Cancellation is a separate operation available from any non-terminal status
//
// Nothing here performs I/O. Locking, persistence and auditing are applied by
// the use cases that call into this package.
package job
