// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fleetwise/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler depends only on the repositories it touches.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// JobRepoFactory provides access to the job repository within a transaction.
	JobRepoFactory interface {
		JobRepository() ports.JobRepository
	}

	// AuditRepoFactory provides access to the audit log within a transaction.
	AuditRepoFactory interface {
		AuditRepository() ports.AuditRepository
	}

	// AlertRepoFactory provides access to the alert store within a transaction.
	AlertRepoFactory interface {
		AlertRepository() ports.AlertRepository
	}

	// SettingsRepoFactory provides access to the monitoring settings within a transaction.
	SettingsRepoFactory interface {
		SettingsRepository() ports.SettingsRepository
	}

	// TransitionUoW covers a status change: the job row, its audit record and
	// the alert it may clear.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   j, err := uow.JobRepository().GetForUpdate(ctx, id)
	//   // ... transition, append audit, clear alert
	//
	//   err = uow.Commit(ctx)
	TransitionUoW interface {
		TxManager
		JobRepoFactory
		AuditRepoFactory
		AlertRepoFactory
	}

	// TransitionUoWFactory creates new transition unit of work instances.
	TransitionUoWFactory interface {
		Create() TransitionUoW
	}

	// AlertUoW manages transactions for alert-only operations.
	AlertUoW interface {
		TxManager
		AlertRepoFactory
	}

	// AlertUoWFactory creates new alert unit of work instances.
	AlertUoWFactory interface {
		Create() AlertUoW
	}

	// MonitorUoW is used by the monitor cycle: it reads settings and
	// candidate jobs and writes alerts.
	MonitorUoW interface {
		TxManager
		JobRepoFactory
		AlertRepoFactory
		SettingsRepoFactory
	}

	// MonitorUoWFactory creates new monitor unit of work instances.
	MonitorUoWFactory interface {
		Create() MonitorUoW
	}

	// SettingsUoW manages transactions for configuration changes.
	SettingsUoW interface {
		TxManager
		SettingsRepoFactory
	}

	// SettingsUoWFactory creates new settings unit of work instances.
	SettingsUoWFactory interface {
		Create() SettingsUoW
	}
)
