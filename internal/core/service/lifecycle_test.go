package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/peoplehub/hr-records/internal/core/domain"
	"github.com/peoplehub/hr-records/internal/core/ports"
	"github.com/peoplehub/hr-records/internal/core/token"
)

// Exercises the full account and hierarchy lifecycle across both services:
// bootstrap, registration, failed login, promotion, self-claim, and the
// assignment restrictions that follow.
func TestAccountAndAssignmentLifecycle(t *testing.T) {
	users := newStubUserRepo()
	employees := newStubEmployeeRepo()
	codec, err := token.NewCodec("secret", time.Hour)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	auth := NewAuthService(users, codec, nil, nil, zerolog.Nop())
	empSvc := NewEmployeeService(employees, users, nil, zerolog.Nop())
	ctx := context.Background()

	// Bootstrap succeeds once, then never again.
	admin, err := auth.BootstrapAdmin(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if has, _ := auth.HasAdmin(ctx); !has {
		t.Fatalf("hasAdmin should be true")
	}
	if _, err := auth.BootstrapAdmin(ctx, "bob", "pw2"); !errors.Is(err, domain.ErrAdminExists) {
		t.Fatalf("second bootstrap: %v", err)
	}

	// Registration always yields staff.
	carol, err := auth.Register(ctx, "carol", "pw3")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if carol.User.Role != domain.RoleStaff {
		t.Fatalf("expected staff, got %s", carol.User.Role)
	}

	// Wrong password fails.
	if _, err := auth.Login(ctx, "carol", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: %v", err)
	}

	// Promotion takes effect on the next login.
	if err := auth.Promote(ctx, carol.User.ID); err != nil {
		t.Fatalf("promote: %v", err)
	}
	relogin, err := auth.Login(ctx, "carol", "pw3")
	if err != nil {
		t.Fatalf("relogin: %v", err)
	}
	if relogin.User.Role != domain.RoleManager {
		t.Fatalf("expected manager after promotion, got %s", relogin.User.Role)
	}

	// An employee record owned by a third user.
	owner, err := auth.Register(ctx, "xavier", "pw4")
	if err != nil {
		t.Fatalf("register owner: %v", err)
	}
	record, err := empSvc.Create(ctx, ports.CreateEmployeeInput{OwnerID: owner.User.ID, Data: `{"dept":"ops"}`})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}

	// Carol, now a manager, claims the employee for herself.
	if err := empSvc.AssignManager(ctx, record.ID, carol.User.ID, domain.RoleManager, carol.User.ID); err != nil {
		t.Fatalf("self-claim: %v", err)
	}

	// She cannot hand the employee to the admin.
	if err := empSvc.AssignManager(ctx, record.ID, admin.User.ID, domain.RoleManager, carol.User.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// Not even the admin may set the owner as their own manager.
	if err := empSvc.AssignManager(ctx, record.ID, owner.User.ID, domain.RoleAdmin, admin.User.ID); !errors.Is(err, domain.ErrSelfManager) {
		t.Fatalf("expected ErrSelfManager, got %v", err)
	}
}
