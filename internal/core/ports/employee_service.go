package ports

import (
	"context"

	"github.com/peoplehub/hr-records/internal/core/domain"
)

// DocumentUpload carries one decoded multipart file.
type DocumentUpload struct {
	Name        string
	FileName    string
	ContentType string
	Data        []byte
}

// CreateEmployeeInput is the input for creating an employee record,
// optionally with an initial manager and documents.
type CreateEmployeeInput struct {
	OwnerID   string
	Data      string
	ManagerID string
	Documents []DocumentUpload
}

type EmployeeService interface {
	Create(ctx context.Context, input CreateEmployeeInput) (*domain.EmployeeRecord, error)
	GetByID(ctx context.Context, employeeID string) (*domain.EmployeeRecord, error)
	GetByOwner(ctx context.Context, userID string) (*domain.EmployeeRecord, error)
	ListAll(ctx context.Context) ([]domain.EmployeeRecord, error)
	ListByManager(ctx context.Context, managerID string) ([]domain.EmployeeRecord, error)
	// AssignManager applies the hierarchy mutation rules. An empty managerID
	// clears the assignment. Managers may only claim employees for themself
	// and only release their own reports; admins are unrestricted. Setting
	// the employee's own user as manager is rejected for every caller.
	AssignManager(ctx context.Context, employeeID, managerID string, requesterRole domain.Role, requesterID string) error
	// UpsertDocument adds a document, or replaces the one with the same name
	// (resetting its approval state).
	UpsertDocument(ctx context.Context, employeeID string, up DocumentUpload) error
	// ReplaceDocument replaces an existing document's content, resetting its
	// approval state. Fails with domain.ErrDocumentNotFound when absent.
	ReplaceDocument(ctx context.Context, employeeID, name string, up DocumentUpload) error
	ApproveDocument(ctx context.Context, employeeID, name string, approved bool) error
	GetDocument(ctx context.Context, employeeID, name string) (*domain.Document, error)
}
