package application

import (
	"context"
	"fmt"

	"github.com/casthost/azuracast-provisioner/internal/domain"
	"github.com/casthost/azuracast-provisioner/internal/ports"
)

// Resolver re-derives the account-to-remote-resource mapping from the live
// user and role listings. Nothing is cached here; every call performs two
// unpaginated reads.
type Resolver struct {
	api ports.AdminAPI
}

func NewResolver(api ports.AdminAPI) *Resolver {
	return &Resolver{api: api}
}

// Resolve maps a client email onto {userId, roleIds, stationIds}. The match
// is exact and case-sensitive, and the first matching user wins; remote
// email uniqueness is a precondition the AzuraCast install must uphold. A
// missing user is a normal outcome, reported as domain.ErrUserNotFound.
func (r *Resolver) Resolve(ctx context.Context, email string) (domain.Binding, error) {
	users, err := r.api.ListUsers(ctx)
	if err != nil {
		return domain.Binding{}, fmt.Errorf("list remote users: %w", err)
	}
	roles, err := r.api.ListRoles(ctx)
	if err != nil {
		return domain.Binding{}, fmt.Errorf("list remote roles: %w", err)
	}

	var binding domain.Binding
	found := false
	for _, user := range users {
		if user.Email == email {
			binding.UserID = user.ID
			binding.RoleIDs = append(binding.RoleIDs, user.RoleIDs...)
			found = true
			break
		}
	}
	if !found {
		return domain.Binding{}, domain.ErrUserNotFound
	}

	binding.StationIDs = stationIDsForRoles(roles, binding.RoleIDs)
	return binding, nil
}

// ResolveAll resolves many emails against one pair of listings. Emails with
// no remote user are simply absent from the result map.
func (r *Resolver) ResolveAll(ctx context.Context, emails []string) (map[string]domain.Binding, error) {
	users, err := r.api.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list remote users: %w", err)
	}
	roles, err := r.api.ListRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list remote roles: %w", err)
	}

	wanted := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		wanted[email] = struct{}{}
	}

	bindings := make(map[string]domain.Binding, len(emails))
	for _, user := range users {
		if _, ok := wanted[user.Email]; !ok {
			continue
		}
		if _, ok := bindings[user.Email]; ok {
			continue
		}
		bindings[user.Email] = domain.Binding{
			UserID:     user.ID,
			RoleIDs:    append([]int(nil), user.RoleIDs...),
			StationIDs: stationIDsForRoles(roles, user.RoleIDs),
		}
	}
	return bindings, nil
}

// stationIDsForRoles collects every station id reachable through the given
// roles, deduplicated, in first-appearance order.
func stationIDsForRoles(roles []domain.Role, roleIDs []int) []int {
	wanted := make(map[int]struct{}, len(roleIDs))
	for _, id := range roleIDs {
		wanted[id] = struct{}{}
	}

	seen := make(map[int]struct{})
	var stationIDs []int
	for _, role := range roles {
		if _, ok := wanted[role.ID]; !ok {
			continue
		}
		for _, perm := range role.StationPermissions {
			if _, ok := seen[perm.StationID]; ok {
				continue
			}
			seen[perm.StationID] = struct{}{}
			stationIDs = append(stationIDs, perm.StationID)
		}
	}
	return stationIDs
}
