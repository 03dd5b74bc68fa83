package application

import (
	"github.com/devstack-id/fullstack-api/internal/domain"
	"github.com/devstack-id/fullstack-api/internal/domain/entity"
)

// CanAccess gates single-record operations: only the record's owner or a
// superuser may proceed.
func CanAccess(caller *entity.User, ownerID string) error {
	if caller == nil {
		return domain.ErrPermissionDenied
	}
	if caller.IsSuperuser || caller.ID == ownerID {
		return nil
	}
	return domain.ErrPermissionDenied
}

// RequireSuperuser gates admin-only operations.
func RequireSuperuser(caller *entity.User) error {
	if caller == nil || !caller.IsSuperuser {
		return domain.ErrPermissionDenied
	}
	return nil
}
