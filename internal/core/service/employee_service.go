package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/peoplehub/hr-records/internal/api/metrics"
	"github.com/peoplehub/hr-records/internal/core/domain"
	"github.com/peoplehub/hr-records/internal/core/ports"
)

// EmployeeService implements employee record creation, the manager
// assignment rules and the document approval lifecycle. All mutations are
// single-record updates against the store; concurrent conflicting writes to
// the same record are last-writer-wins.
type EmployeeService struct {
	employees ports.EmployeeRepository
	users     ports.UserRepository
	audit     ports.AuditSink
	logger    zerolog.Logger
}

func NewEmployeeService(employees ports.EmployeeRepository, users ports.UserRepository, audit ports.AuditSink, logger zerolog.Logger) *EmployeeService {
	return &EmployeeService{employees: employees, users: users, audit: audit, logger: logger}
}

// Create builds a new employee record, optionally with an initial manager
// and documents. The creation-time mirror of the self-management invariant
// applies: the owner cannot be their own manager.
func (s *EmployeeService) Create(ctx context.Context, input ports.CreateEmployeeInput) (*domain.EmployeeRecord, error) {
	if _, err := uuid.Parse(input.OwnerID); err != nil {
		return nil, domain.ErrInvalidUserID
	}
	if input.ManagerID != "" {
		if input.ManagerID == input.OwnerID {
			return nil, domain.ErrSelfManager
		}
		if _, err := uuid.Parse(input.ManagerID); err != nil {
			return nil, domain.ErrInvalidManager
		}
	}

	now := time.Now().UTC()
	record := &domain.EmployeeRecord{
		ID:        uuid.NewString(),
		UserID:    input.OwnerID,
		Data:      input.Data,
		ManagerID: input.ManagerID,
		Documents: make([]domain.Document, 0, len(input.Documents)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, up := range input.Documents {
		record.Documents = append(record.Documents, domain.NewDocument(uuid.NewString(), up.Name, up.FileName, up.ContentType, up.Data, now))
	}

	if err := s.employees.Insert(ctx, record); err != nil {
		return nil, err
	}

	s.emit(input.OwnerID, "employee.create", record.ID, "")
	s.logger.Info().Str("employee_id", record.ID).Str("user_id", record.UserID).Msg("employee record created")
	return record, nil
}

func (s *EmployeeService) GetByID(ctx context.Context, employeeID string) (*domain.EmployeeRecord, error) {
	return s.employees.FindByID(ctx, employeeID)
}

func (s *EmployeeService) GetByOwner(ctx context.Context, userID string) (*domain.EmployeeRecord, error) {
	return s.employees.FindByOwner(ctx, userID)
}

func (s *EmployeeService) ListAll(ctx context.Context) ([]domain.EmployeeRecord, error) {
	return s.employees.ListAll(ctx)
}

func (s *EmployeeService) ListByManager(ctx context.Context, managerID string) ([]domain.EmployeeRecord, error) {
	return s.employees.ListByManager(ctx, managerID)
}

// AssignManager applies the hierarchy mutation rules:
//
//   - the employee must exist;
//   - no caller may record the employee's own user as manager;
//   - a manager may only claim employees for themself, and may only release
//     employees whose current manager is themself;
//   - an admin is unrestricted;
//   - a non-empty target must resolve to a user whose role is manager or
//     admin.
func (s *EmployeeService) AssignManager(ctx context.Context, employeeID, managerID string, requesterRole domain.Role, requesterID string) error {
	record, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		return err
	}

	if managerID != "" && managerID == record.UserID {
		return domain.ErrSelfManager
	}

	switch requesterRole {
	case domain.RoleAdmin:
		// Unrestricted.
	case domain.RoleManager:
		if managerID == "" {
			if record.ManagerID != requesterID {
				return domain.ErrForbidden
			}
		} else if managerID != requesterID {
			return domain.ErrForbidden
		}
	default:
		return domain.ErrForbidden
	}

	action := "clear"
	if managerID != "" {
		action = "set"
		if _, err := uuid.Parse(managerID); err != nil {
			return domain.ErrInvalidManager
		}
		target, err := s.users.FindByID(ctx, managerID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return domain.ErrInvalidManager
			}
			return err
		}
		if !target.Role.CanManage() {
			return domain.ErrInvalidManager
		}
	}

	if err := s.employees.UpdateManager(ctx, employeeID, managerID); err != nil {
		return err
	}

	metrics.ManagerAssignmentsTotal.WithLabelValues(action).Inc()
	s.emit(requesterID, "employee.assign_manager", employeeID, managerID)
	s.logger.Info().
		Str("employee_id", employeeID).
		Str("manager_id", managerID).
		Str("requester_id", requesterID).
		Msg("manager assignment changed")
	return nil
}

// UpsertDocument stores an uploaded file under the given document name. If a
// document with that name already exists its content is replaced and its
// approval state resets to pending.
func (s *EmployeeService) UpsertDocument(ctx context.Context, employeeID string, up ports.DocumentUpload) error {
	record, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	kind := "create"
	var doc domain.Document
	if existing, ok := record.FindDocument(up.Name); ok {
		kind = "replace"
		doc = *existing
		doc.Replace(up.FileName, up.ContentType, up.Data, now)
	} else {
		doc = domain.NewDocument(uuid.NewString(), up.Name, up.FileName, up.ContentType, up.Data, now)
	}

	if err := s.employees.UpsertDocument(ctx, employeeID, doc); err != nil {
		return err
	}
	metrics.DocumentsUploadedTotal.WithLabelValues(kind).Inc()
	return nil
}

// ReplaceDocument replaces the content of an existing document, resetting
// its approval state regardless of its prior value.
func (s *EmployeeService) ReplaceDocument(ctx context.Context, employeeID, name string, up ports.DocumentUpload) error {
	record, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		return err
	}
	existing, ok := record.FindDocument(name)
	if !ok {
		return domain.ErrDocumentNotFound
	}

	doc := *existing
	doc.Replace(up.FileName, up.ContentType, up.Data, time.Now().UTC())
	if err := s.employees.UpsertDocument(ctx, employeeID, doc); err != nil {
		return err
	}
	metrics.DocumentsUploadedTotal.WithLabelValues("replace").Inc()
	return nil
}

// ApproveDocument records an approval decision for the document's current
// content version.
func (s *EmployeeService) ApproveDocument(ctx context.Context, employeeID, name string, approved bool) error {
	record, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		return err
	}
	if _, ok := record.FindDocument(name); !ok {
		return domain.ErrDocumentNotFound
	}

	state := domain.ApprovalRejected
	if approved {
		state = domain.ApprovalApproved
	}
	if err := s.employees.UpdateDocumentApproval(ctx, employeeID, name, state); err != nil {
		return err
	}
	metrics.DocumentApprovalsTotal.WithLabelValues(string(state)).Inc()
	s.emit("", "document.approve", employeeID, name+"="+string(state))
	return nil
}

func (s *EmployeeService) GetDocument(ctx context.Context, employeeID, name string) (*domain.Document, error) {
	record, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	doc, ok := record.FindDocument(name)
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	copied := *doc
	return &copied, nil
}

func (s *EmployeeService) emit(actor, action, subject, detail string) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(ports.AuditEvent{
		Actor:   actor,
		Action:  action,
		Subject: subject,
		Detail:  detail,
		At:      time.Now().UTC(),
	})
}
