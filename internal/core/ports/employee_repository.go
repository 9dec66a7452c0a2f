package ports

import (
	"context"

	"github.com/peoplehub/hr-records/internal/core/domain"
)

// EmployeeRepository defines the persistence interface for employee records.
// Each mutation is a single-document update; concurrent conflicting updates
// to the same record are last-writer-wins.
type EmployeeRepository interface {
	Insert(ctx context.Context, record *domain.EmployeeRecord) error
	// FindByID returns domain.ErrEmployeeNotFound when no record matches.
	FindByID(ctx context.Context, id string) (*domain.EmployeeRecord, error)
	// FindByOwner returns the record owned by the given user id.
	FindByOwner(ctx context.Context, userID string) (*domain.EmployeeRecord, error)
	ListAll(ctx context.Context) ([]domain.EmployeeRecord, error)
	ListByManager(ctx context.Context, managerID string) ([]domain.EmployeeRecord, error)
	// UpdateManager sets the record's manager reference. An empty managerID
	// clears the assignment.
	UpdateManager(ctx context.Context, employeeID, managerID string) error
	// UpsertDocument replaces the document with the same name, or appends it.
	UpsertDocument(ctx context.Context, employeeID string, doc domain.Document) error
	// UpdateDocumentApproval sets the approval state of a named document.
	// Returns domain.ErrDocumentNotFound when the document is absent.
	UpdateDocumentApproval(ctx context.Context, employeeID, name string, state domain.ApprovalState) error
}
