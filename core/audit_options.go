// Package core provides fundamental utilities for the Rudder control plane.
// This file contains option functions for customizing audit entries.
package core

import (
	"github.com/tfkr-ae/rudder/domain"
)

// AuditWithContext is an option to add a context map to an audit entry.
func AuditWithContext(context map[string]any) func(entry *domain.AuditEntry) error {
	return func(entry *domain.AuditEntry) error {
		entry.Context = context
		return nil
	}
}

// AuditWithRevision is an option to associate an audit entry with the
// snapshot revision its change produced.
func AuditWithRevision(revision string) func(entry *domain.AuditEntry) error {
	return func(entry *domain.AuditEntry) error {
		entry.Revision = revision
		return nil
	}
}
