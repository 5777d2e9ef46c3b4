// Package alert provides the MonitoringAlert entity raised for confirmed jobs
// that approach their pickup time without having started.
//
// An alert moves through three lifecycle states:
//
//	active ──┬──> acknowledged
//	         └──> cleared
//
// Only an active alert may receive reminders, be acknowledged or be cleared.
// Storage guarantees that a job has at most one active alert at a time.
package alert
