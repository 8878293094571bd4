package auth

import "medmarket/internal/entity"

// Capability names an action the policy evaluator can gate.
type Capability string

const (
	// CapMedicineCreate: add a medicine to the catalog.
	CapMedicineCreate Capability = "medicine.create"
	// CapMedicineManage: read, update or delete a specific medicine.
	CapMedicineManage Capability = "medicine.manage"
	// CapBuyerWrite: create a cart item, address, order or feedback.
	CapBuyerWrite Capability = "buyer.write"
	// CapOwnedAccess: read, update or delete a resource bound to a user.
	CapOwnedAccess Capability = "owned.access"
	// CapAdmin: admin-only operations.
	CapAdmin Capability = "admin"
)

type DenyReason string

const (
	ReasonRoleNotPermitted DenyReason = "role_not_permitted"
	ReasonNotOwner         DenyReason = "not_owner"
)

// DenyError carries the internal reason for a denial. Both reasons
// surface as the same forbidden outcome to the end user; the
// distinction exists for logging.
type DenyError struct {
	Reason DenyReason
}

func (e *DenyError) Error() string {
	return "access denied: " + string(e.Reason)
}

// NoOwner marks a capability check with no ownership dimension.
const NoOwner = 0

// Allow decides whether the principal may exercise the capability
// against a resource owned by ownerID (NoOwner when the resource has
// no owner, or when ownership is irrelevant for the check).
//
// Callers must resolve resource existence before calling Allow, so a
// missing resource is reported as not found rather than as an
// ownership denial.
func Allow(p Principal, ownerID int, cap Capability) error {
	if p.Role == entity.RoleAdmin {
		return nil
	}

	switch cap {
	case CapMedicineCreate:
		if p.Role == entity.RoleSeller {
			return nil
		}
	case CapMedicineManage:
		if p.Role != entity.RoleSeller {
			break
		}
		if ownerID != NoOwner && ownerID != p.UserID {
			return &DenyError{Reason: ReasonNotOwner}
		}
		return nil
	case CapBuyerWrite:
		if p.Role == entity.RoleBuyer {
			return nil
		}
	case CapOwnedAccess:
		if ownerID != NoOwner && ownerID != p.UserID {
			return &DenyError{Reason: ReasonNotOwner}
		}
		return nil
	}
	return &DenyError{Reason: ReasonRoleNotPermitted}
}
