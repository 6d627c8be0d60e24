// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

package admin

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sewcraft/api/internal/identity"
	"github.com/sewcraft/api/internal/platform/apperr"
	"github.com/sewcraft/api/internal/platform/guard"
	"github.com/sewcraft/api/internal/platform/sec"
	"github.com/sewcraft/api/internal/platform/validate"
)

// # Service Layer

// Service applies privileged edits to identities.
type Service struct {
	identities identity.Repository
	directory  Directory
	logger     *slog.Logger
}

// NewService constructs a new user-management [Service].
func NewService(identities identity.Repository, directory Directory, logger *slog.Logger) *Service {
	return &Service{
		identities: identities,
		directory:  directory,
		logger:     logger,
	}
}

// # Edits

/*
Apply runs a partial edit against the target identity.

Description: The caller must be an admin or the target themself; only
admins may touch the role or block flag. When the edit changes the email,
uniqueness is enforced before anything is written. The identity row
commits first; the credential directory syncs second. A sync failure
after the row committed returns the updated identity together with a
PARTIAL_SUCCESS error naming the failed half.

Parameters:
  - context: context.Context
  - caller: *guard.Principal
  - targetID: string
  - patch: Patch

Returns:
  - *identity.Identity: Updated identity (also on PARTIAL_SUCCESS)
  - error: FORBIDDEN, NOT_FOUND, EMAIL_TAKEN, VALIDATION_ERROR,
    PARTIAL_SUCCESS, persistence failures
*/
func (service *Service) Apply(context context.Context, caller *guard.Principal, targetID string, patch Patch) (*identity.Identity, error) {
	if err := service.authorize(caller, targetID, patch); err != nil {
		return nil, err
	}

	if err := service.validatePatch(patch); err != nil {
		return nil, err
	}

	target, err := service.identities.FindByID(context, targetID)
	if err != nil {
		return nil, err
	}

	if patch.IsEmpty() {
		return target, nil
	}

	// Uniqueness check happens before any write so a duplicate email can
	// never half-apply.
	if patch.Email != nil && !strings.EqualFold(*patch.Email, target.Email) {
		if err := service.ensureEmailFree(context, *patch.Email); err != nil {
			return nil, err
		}
	}

	applyPatch(target, patch)

	if err := service.identities.Update(context, target); err != nil {
		return nil, err
	}
	if patch.Role != nil {
		if err := service.identities.SetRole(context, target.ID, string(target.Role)); err != nil {
			return nil, err
		}
	}
	if patch.IsBlocked != nil {
		if err := service.identities.SetBlocked(context, target.ID, target.IsBlocked); err != nil {
			return nil, err
		}
	}

	if err := service.directory.Sync(context, target); err != nil {
		service.logger.Warn("credential directory out of step after profile write",
			slog.String("user_id", target.ID),
			slog.Any("error", err),
		)
		return target, apperr.PartialSuccess("Profile updated but credential sync failed", err)
	}

	service.logger.Info("privileged user edit applied",
		slog.String("caller_id", caller.ID),
		slog.String("user_id", target.ID),
	)

	return target, nil
}

/*
Replace runs a full edit: every profile field, the role, and the block
flag are written as given. Same caller rules and two-phase semantics as
[Service.Apply].

Parameters:
  - context: context.Context
  - caller: *guard.Principal
  - targetID: string
  - replacement: Replacement

Returns:
  - *identity.Identity: Updated identity (also on PARTIAL_SUCCESS)
  - error: Same taxonomy as [Service.Apply]
*/
func (service *Service) Replace(context context.Context, caller *guard.Principal, targetID string, replacement Replacement) (*identity.Identity, error) {
	return service.Apply(context, caller, targetID, replacement.AsPatch())
}

/*
List returns a page of all accounts for the back-office.

Parameters:
  - context: context.Context
  - limit, offset: int

Returns:
  - []*identity.Identity: Page of accounts
  - int: Total count
  - error: Retrieval failures
*/
func (service *Service) List(context context.Context, limit, offset int) ([]*identity.Identity, int, error) {
	return service.identities.List(context, limit, offset)
}

// # Rules

func (service *Service) authorize(caller *guard.Principal, targetID string, patch Patch) error {
	if guard.Authorize(caller) != guard.Allow {
		return apperr.Unauthorized("Authentication required")
	}

	if caller.Role != sec.RoleAdmin {
		if caller.ID != targetID {
			return apperr.Forbidden("You may only manage your own account")
		}
		if patch.TouchesPrivileged() {
			return apperr.Forbidden("Role and block changes require an administrator")
		}
	}

	return nil
}

func (service *Service) validatePatch(patch Patch) error {
	validator := &validate.Validator{}
	if patch.Email != nil {
		validator.Required(FieldEmail, *patch.Email).Email(FieldEmail, *patch.Email)
	}
	if patch.Name != nil {
		validator.Required(FieldName, *patch.Name).MaxLen(FieldName, *patch.Name, 120)
	}
	if patch.Role != nil {
		validator.OneOf(FieldRole, *patch.Role, string(sec.RoleAdmin), string(sec.RoleUser))
	}
	return validator.Err()
}

func (service *Service) ensureEmailFree(context context.Context, email string) error {
	existing, err := service.identities.FindByEmail(context, email)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil
		}
		return err
	}
	if existing != nil {
		return identity.ErrEmailTaken()
	}
	return nil
}

func applyPatch(target *identity.Identity, patch Patch) {
	identity.Patch{
		Email:   patch.Email,
		Name:    patch.Name,
		Phone:   patch.Phone,
		Address: patch.Address,
		Avatar:  patch.Avatar,
	}.Apply(target)

	if patch.Role != nil {
		target.Role = sec.NormalizeRole(*patch.Role)
	}
	if patch.IsBlocked != nil {
		target.IsBlocked = *patch.IsBlocked
	}
}
