// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Handlers read with direct SQL and return read models shaped for the API.
package queries
