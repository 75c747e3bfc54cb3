// Package approver resolves approval step approver references into concrete
// users, climbing the organization hierarchy when a scope has no direct
// match.
package approver

import (
	"context"
	"fmt"

	"github.com/campushr/hr-management-api/internal/employee"
	emodel "github.com/campushr/hr-management-api/internal/employee/model"
	"github.com/campushr/hr-management-api/internal/identity"
	rtmodel "github.com/campushr/hr-management-api/internal/requesttype/model"
	"github.com/campushr/hr-management-api/internal/system/config"
	"github.com/campushr/hr-management-api/internal/system/error/serviceerror"
	"github.com/campushr/hr-management-api/internal/system/log"
	"github.com/campushr/hr-management-api/internal/system/stores"
)

// RequesterContext locates the requesting employee in the organization. A
// requester without an employee record resolves with empty scope and every
// scoped lookup starts at the widest level.
type RequesterContext struct {
	UserID       string
	EmployeeID   string
	DepartmentID string
	FacultyID    string
}

// ScopeFilter restricts candidate employees to an allow-list of faculties
// and departments. The zero value allows everyone.
type ScopeFilter struct {
	FacultyIDs    []string
	DepartmentIDs []string
}

// IsZero reports whether the filter imposes no restriction.
func (f ScopeFilter) IsZero() bool {
	return len(f.FacultyIDs) == 0 && len(f.DepartmentIDs) == 0
}

func (f ScopeFilter) allows(e *emodel.Employee) bool {
	if f.IsZero() {
		return true
	}
	if e.DepartmentID != nil {
		for _, id := range f.DepartmentIDs {
			if *e.DepartmentID == id {
				return true
			}
		}
	}
	if e.FacultyID != nil {
		for _, id := range f.FacultyIDs {
			if *e.FacultyID == id {
				return true
			}
		}
	}
	return false
}

// ResolvedApprover is one concrete approver produced from a reference,
// carrying provenance so later filtering and audit rows know how the user
// was selected.
type ResolvedApprover struct {
	Type       rtmodel.ApproverType `json:"type"`
	UserID     string               `json:"user_id,omitempty"`
	RoleID     string               `json:"role_id,omitempty"`
	PositionID string               `json:"position_id,omitempty"`

	WasResolvedFromRole     bool `json:"was_resolved_from_role,omitempty"`
	WasResolvedFromPosition bool `json:"was_resolved_from_position,omitempty"`
	WasEscalated            bool `json:"was_escalated,omitempty"`

	// DepartmentID/FacultyID mirror the resolved employee's placement and
	// only drive post-resolution filtering.
	DepartmentID string `json:"-"`
	FacultyID    string `json:"-"`
}

// ApproverResolver resolves approver references for one approval step.
type ApproverResolver interface {
	Resolve(ctx context.Context, refs []rtmodel.ApproverRef, requester RequesterContext, scope ScopeFilter) ([]ResolvedApprover, *serviceerror.ServiceError)
	BuildRequesterContext(ctx context.Context, userID string) (RequesterContext, *serviceerror.ServiceError)
}

type approverResolver struct {
	stores     *stores.StoreRegistry
	escalation config.EscalationConfig
}

// NewResolver creates an approver resolver over the shared store registry.
func NewResolver(registry *stores.StoreRegistry, escalation config.EscalationConfig) ApproverResolver {
	return &approverResolver{
		stores:     registry,
		escalation: escalation,
	}
}

func (r *approverResolver) employeeStore() employee.EmployeeStore {
	return r.stores.Employee.(employee.EmployeeStore)
}

func (r *approverResolver) identityStore() identity.IdentityStore {
	return r.stores.Identity.(identity.IdentityStore)
}

// BuildRequesterContext loads the requester's employee record and projects
// the organization placement used by scoped resolution.
func (r *approverResolver) BuildRequesterContext(ctx context.Context, userID string) (RequesterContext, *serviceerror.ServiceError) {
	requester := RequesterContext{UserID: userID}
	emp, err := r.employeeStore().GetEmployeeByUserID(ctx, userID)
	if err != nil {
		return requester, serviceerror.CustomServiceError(serviceerror.DatabaseError,
			fmt.Sprintf("failed to load requester employee: %v", err))
	}
	if emp != nil {
		requester.EmployeeID = emp.EmployeeID
		if emp.DepartmentID != nil {
			requester.DepartmentID = *emp.DepartmentID
		}
		if emp.FacultyID != nil {
			requester.FacultyID = *emp.FacultyID
		}
	}
	return requester, nil
}

// Resolve expands every reference of a step, applies requester-division
// filtering, and deduplicates the result.
func (r *approverResolver) Resolve(ctx context.Context, refs []rtmodel.ApproverRef, requester RequesterContext, scope ScopeFilter) ([]ResolvedApprover, *serviceerror.ServiceError) {
	resolved := make([]ResolvedApprover, 0, len(refs))
	for _, ref := range refs {
		switch ref.Type {
		case rtmodel.ApproverTypeUser:
			resolved = append(resolved, ResolvedApprover{
				Type:   rtmodel.ApproverTypeUser,
				UserID: ref.RefID,
			})
		case rtmodel.ApproverTypeRole:
			fromRole, svcErr := r.resolveRole(ctx, ref.RefID, requester, scope)
			if svcErr != nil {
				return nil, svcErr
			}
			resolved = append(resolved, fromRole...)
		case rtmodel.ApproverTypePosition:
			fromPosition, svcErr := r.resolvePosition(ctx, ref.RefID, requester, scope)
			if svcErr != nil {
				return nil, svcErr
			}
			resolved = append(resolved, fromPosition...)
		default:
			return nil, serviceerror.CustomServiceError(serviceerror.ValidationError,
				fmt.Sprintf("invalid approver type: %s", ref.Type))
		}
	}

	if r.escalation.FilterByRequesterDivision {
		resolved = FilterByRequesterDivision(resolved, requester)
	}
	return Deduplicate(resolved), nil
}

// resolveRole expands a role reference to its holders. When division
// scoping is on, same-department holders win over same-faculty holders,
// which win over the full holder set; matches above department level are
// flagged escalated.
func (r *approverResolver) resolveRole(ctx context.Context, roleID string, requester RequesterContext, scope ScopeFilter) ([]ResolvedApprover, *serviceerror.ServiceError) {
	userIDs, err := r.identityStore().GetUserIDsByRole(ctx, roleID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError,
			fmt.Sprintf("failed to resolve role holders: %v", err))
	}

	holders := make([]ResolvedApprover, 0, len(userIDs))
	for _, userID := range userIDs {
		emp, err := r.employeeStore().GetEmployeeByUserID(ctx, userID)
		if err != nil {
			return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError,
				fmt.Sprintf("failed to load role holder: %v", err))
		}
		if emp != nil && !scope.allows(emp) {
			continue
		}
		holder := ResolvedApprover{
			Type:                rtmodel.ApproverTypeRole,
			UserID:              userID,
			RoleID:              roleID,
			WasResolvedFromRole: true,
		}
		if emp != nil {
			if emp.DepartmentID != nil {
				holder.DepartmentID = *emp.DepartmentID
			}
			if emp.FacultyID != nil {
				holder.FacultyID = *emp.FacultyID
			}
		}
		holders = append(holders, holder)
	}

	if !r.escalation.FilterByRequesterDivision || requester.DepartmentID == "" {
		return holders, nil
	}

	sameDepartment := make([]ResolvedApprover, 0, len(holders))
	sameFaculty := make([]ResolvedApprover, 0, len(holders))
	for _, h := range holders {
		switch {
		case h.DepartmentID == requester.DepartmentID:
			sameDepartment = append(sameDepartment, h)
		case requester.FacultyID != "" && h.FacultyID == requester.FacultyID:
			sameFaculty = append(sameFaculty, h)
		}
	}
	if len(sameDepartment) > 0 {
		return sameDepartment, nil
	}
	if len(sameFaculty) > 0 {
		return markEscalated(sameFaculty, r.escalation.FacultyCountsAsEscalated), nil
	}
	return markEscalated(holders, true), nil
}

// resolvePosition expands a position reference by walking the requester's
// department, then faculty, then the whole organization until a non-empty
// holder set appears. The escalation config caps the walk.
func (r *approverResolver) resolvePosition(ctx context.Context, positionID string, requester RequesterContext, scope ScopeFilter) ([]ResolvedApprover, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "ApproverResolver"))

	type level struct {
		list      func() ([]emodel.Employee, error)
		escalated bool
	}
	levels := make([]level, 0, 3)
	if requester.DepartmentID != "" {
		levels = append(levels, level{
			list: func() ([]emodel.Employee, error) {
				return r.employeeStore().ListEmployeesByPositionInDepartment(ctx, positionID, requester.DepartmentID)
			},
		})
	}
	if requester.FacultyID != "" && (requester.DepartmentID == "" || r.escalation.MaxLevels >= 1) {
		levels = append(levels, level{
			list: func() ([]emodel.Employee, error) {
				return r.employeeStore().ListEmployeesByPositionInFaculty(ctx, positionID, requester.FacultyID)
			},
			escalated: requester.DepartmentID != "" && r.escalation.FacultyCountsAsEscalated,
		})
	}
	if len(levels) == 0 || r.escalation.MaxLevels >= 2 {
		levels = append(levels, level{
			list: func() ([]emodel.Employee, error) {
				return r.employeeStore().ListEmployeesByPosition(ctx, positionID)
			},
			escalated: requester.DepartmentID != "" || requester.FacultyID != "",
		})
	}

	for i, lvl := range levels {
		employees, err := lvl.list()
		if err != nil {
			return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError,
				fmt.Sprintf("failed to resolve position holders: %v", err))
		}
		matched := make([]ResolvedApprover, 0, len(employees))
		for j := range employees {
			emp := employees[j]
			if !scope.allows(&emp) {
				continue
			}
			approver := ResolvedApprover{
				Type:                    rtmodel.ApproverTypePosition,
				UserID:                  emp.UserID,
				PositionID:              positionID,
				WasResolvedFromPosition: true,
				WasEscalated:            lvl.escalated,
			}
			if emp.DepartmentID != nil {
				approver.DepartmentID = *emp.DepartmentID
			}
			if emp.FacultyID != nil {
				approver.FacultyID = *emp.FacultyID
			}
			matched = append(matched, approver)
		}
		if len(matched) > 0 {
			if i > 0 {
				logger.Debug("Position resolution escalated",
					log.String("position_id", positionID),
					log.Int("level", i))
			}
			return matched, nil
		}
	}

	logger.Warn("Position reference resolved to no approvers",
		log.String("position_id", positionID),
		log.String("requester_user_id", requester.UserID))
	return nil, nil
}

func markEscalated(approvers []ResolvedApprover, escalated bool) []ResolvedApprover {
	if !escalated {
		return approvers
	}
	for i := range approvers {
		approvers[i].WasEscalated = true
	}
	return approvers
}

// FilterByRequesterDivision drops division-scoped approvers outside the
// requester's department or faculty. Escalated entries are exempt: they were
// selected above the requester's division on purpose. Approvers with no
// placement, and direct user references, always survive.
func FilterByRequesterDivision(approvers []ResolvedApprover, requester RequesterContext) []ResolvedApprover {
	if requester.DepartmentID == "" && requester.FacultyID == "" {
		return approvers
	}
	kept := make([]ResolvedApprover, 0, len(approvers))
	for _, a := range approvers {
		switch {
		case a.Type == rtmodel.ApproverTypeUser,
			a.WasEscalated,
			a.DepartmentID == "" && a.FacultyID == "",
			a.DepartmentID != "" && a.DepartmentID == requester.DepartmentID,
			a.FacultyID != "" && a.FacultyID == requester.FacultyID:
			kept = append(kept, a)
		}
	}
	return kept
}

// Deduplicate removes repeated approvers, keyed by the full identity tuple
// so a user kept through two distinct references still appears once per
// reference kind.
func Deduplicate(approvers []ResolvedApprover) []ResolvedApprover {
	type key struct {
		approverType rtmodel.ApproverType
		userID       string
		roleID       string
		positionID   string
	}
	seen := make(map[key]struct{}, len(approvers))
	unique := make([]ResolvedApprover, 0, len(approvers))
	for _, a := range approvers {
		k := key{a.Type, a.UserID, a.RoleID, a.PositionID}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, a)
	}
	return unique
}
