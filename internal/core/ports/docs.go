// Package ports defines the contracts between the dispatch core and its
// infrastructure: repositories, the unit of work, push notification delivery
// and cross-instance locking.
package ports
