package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/casthost/azuracast-provisioner/internal/domain"
	"github.com/casthost/azuracast-provisioner/internal/ports"
)

// Provisioner maps billing lifecycle operations onto AzuraCast admin API
// calls. It holds no state between invocations; every operation is a fresh
// sequence of blocking calls, with no retries.
type Provisioner struct {
	api      ports.AdminAPI
	resolver *Resolver
	cache    ports.BindingCache
	log      *slog.Logger
	rollback bool
}

type ProvisionerOption func(*Provisioner)

// WithRollback enables best-effort compensating deletes when a create
// sequence fails partway. Off by default: the historical behavior leaves
// earlier resources behind.
func WithRollback(enabled bool) ProvisionerOption {
	return func(p *Provisioner) { p.rollback = enabled }
}

// WithBindingCache records resolved bindings per account and lets unsuspend
// and cancel skip the resolver when a trusted local mapping exists.
func WithBindingCache(cache ports.BindingCache) ProvisionerOption {
	return func(p *Provisioner) { p.cache = cache }
}

func NewProvisioner(api ports.AdminAPI, resolver *Resolver, log *slog.Logger, opts ...ProvisionerOption) *Provisioner {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	p := &Provisioner{
		api:      api,
		resolver: resolver,
		log:      log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// TestConnection probes the services listing; a reachable install always
// reports at least one service.
func (p *Provisioner) TestConnection(ctx context.Context) error {
	services, err := p.api.ListServices(ctx)
	if err != nil {
		return fmt.Errorf("list services: %w", err)
	}
	if len(services) == 0 {
		return errors.New("azuracast reported no services")
	}
	return nil
}

// CreateResult reports what Create provisioned.
type CreateResult struct {
	Station     domain.Station
	Role        domain.Role
	UserID      int
	UserCreated bool
}

// Create provisions a station named after the account domain, a role scoping
// the package's permissions to that station, and a user for the client email.
// A client that already owns a user gets the new role appended instead of a
// second user. Each step requires the id from the previous response; a
// failure aborts the sequence immediately.
func (p *Provisioner) Create(ctx context.Context, account domain.Account) (CreateResult, error) {
	var undo []func(context.Context) error

	station, err := p.api.CreateStation(ctx, account.Domain)
	if err != nil {
		return CreateResult{}, fmt.Errorf("create station: %w", err)
	}
	undo = append(undo, func(ctx context.Context) error { return p.api.DeleteStation(ctx, station.ID) })

	permissions := account.Package.EnabledPermissions()
	role, err := p.api.CreateRole(ctx, station.Name, station.ID, permissions)
	if err != nil {
		p.compensate(ctx, undo)
		return CreateResult{}, fmt.Errorf("create role: %w", err)
	}
	undo = append(undo, func(ctx context.Context) error { return p.api.DeleteRole(ctx, role.ID) })

	result := CreateResult{Station: station, Role: role}

	binding, err := p.resolver.Resolve(ctx, account.Client.Email)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		user, err := p.api.CreateUser(ctx, account.Client.Email, account.Client.FullName, []int{role.ID})
		if err != nil {
			p.compensate(ctx, undo)
			return CreateResult{}, fmt.Errorf("create user: %w", err)
		}
		result.UserID = user.ID
		result.UserCreated = true
	case err != nil:
		p.compensate(ctx, undo)
		return CreateResult{}, fmt.Errorf("resolve client: %w", err)
	default:
		roleIDs := append(binding.RoleIDs, role.ID)
		if err := p.api.UpdateUserRoles(ctx, binding.UserID, roleIDs); err != nil {
			p.compensate(ctx, undo)
			return CreateResult{}, fmt.Errorf("attach role to existing user: %w", err)
		}
		result.UserID = binding.UserID
	}

	p.cacheBinding(ctx, account.ID, domain.Binding{
		UserID:     result.UserID,
		RoleIDs:    []int{role.ID},
		StationIDs: []int{station.ID},
	})

	p.log.Info("created station",
		"account", account.ID,
		"station", station.ID,
		"role", role.ID,
		"user", result.UserID,
		"user_created", result.UserCreated,
	)
	return result, nil
}

// compensate runs the recorded undo steps in reverse order, best effort.
// Only active when rollback is enabled.
func (p *Provisioner) compensate(ctx context.Context, undo []func(context.Context) error) {
	if !p.rollback {
		return
	}
	for i := len(undo) - 1; i >= 0; i-- {
		if err := undo[i](ctx); err != nil {
			p.log.Warn("rollback step failed", "error", err)
		}
	}
}

// Suspend logs the request and leaves the remote station untouched. Only
// unsuspend re-enables a station; billing hosts have always seen this
// asymmetry and disabling here would change what they expect.
func (p *Provisioner) Suspend(ctx context.Context, account domain.Account) error {
	_ = ctx
	p.log.Info("suspending account", "account", account.ID, "reseller", account.Reseller)
	return nil
}

// Unsuspend re-enables the account's station.
func (p *Provisioner) Unsuspend(ctx context.Context, account domain.Account) error {
	stationID, err := p.stationID(ctx, account)
	if err != nil {
		return err
	}

	if err := p.api.SetStationEnabled(ctx, stationID, true); err != nil {
		return fmt.Errorf("enable station: %w", err)
	}
	p.log.Info("unsuspended account", "account", account.ID, "station", stationID)
	return nil
}

// Cancel tears down the user, roles and stations bound to the account. Each
// delete is attempted independently; failures are collected and reported
// together rather than stopping the teardown.
func (p *Provisioner) Cancel(ctx context.Context, account domain.Account) error {
	binding, err := p.binding(ctx, account)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			p.log.Info("nothing to cancel", "account", account.ID)
			return nil
		}
		return fmt.Errorf("resolve account resources: %w", err)
	}

	var errs []error
	if binding.UserID != 0 {
		if err := p.api.DeleteUser(ctx, binding.UserID); err != nil {
			errs = append(errs, fmt.Errorf("delete user %d: %w", binding.UserID, err))
		}
	}
	for _, roleID := range binding.RoleIDs {
		if err := p.api.DeleteRole(ctx, roleID); err != nil {
			errs = append(errs, fmt.Errorf("delete role %d: %w", roleID, err))
		}
	}
	for _, stationID := range binding.StationIDs {
		if err := p.api.DeleteStation(ctx, stationID); err != nil {
			errs = append(errs, fmt.Errorf("delete station %d: %w", stationID, err))
		}
	}

	if p.cache != nil {
		if err := p.cache.Delete(ctx, account.ID); err != nil {
			p.log.Warn("drop cached binding", "account", account.ID, "error", err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	p.log.Info("cancelled account", "account", account.ID,
		"user", binding.UserID, "roles", len(binding.RoleIDs), "stations", len(binding.StationIDs))
	return nil
}

// ChangePassword sets a new panel password for the client's remote user.
func (p *Provisioner) ChangePassword(ctx context.Context, account domain.Account, newPassword string) error {
	binding, err := p.resolver.Resolve(ctx, account.Client.Email)
	if err != nil {
		return fmt.Errorf("resolve client: %w", err)
	}

	if err := p.api.UpdateUserPassword(ctx, binding.UserID, newPassword); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	p.log.Info("changed account password", "account", account.ID, "user", binding.UserID)
	return nil
}

// ChangePackage acknowledges the new tier. Permissions of already-provisioned
// roles are left alone.
func (p *Provisioner) ChangePackage(ctx context.Context, account domain.Account, pkg domain.Package) error {
	_ = ctx
	p.log.Info("changing account package", "account", account.ID, "package", pkg.Name)
	return nil
}

func (p *Provisioner) ChangeUsername(ctx context.Context, account domain.Account, newUsername string) error {
	_ = ctx
	p.log.Info("changing account username", "account", account.ID, "username", newUsername)
	return nil
}

func (p *Provisioner) ChangeDomain(ctx context.Context, account domain.Account, newDomain string) error {
	_ = ctx
	p.log.Info("changing account domain", "account", account.ID, "domain", newDomain)
	return nil
}

func (p *Provisioner) ChangeIP(ctx context.Context, account domain.Account, newIP string) error {
	_ = ctx
	p.log.Info("changing account ip", "account", account.ID, "ip", newIP)
	return nil
}

// Synchronize returns a copy of the account with the username aligned to the
// client email, the identity the remote side keys on.
func (p *Provisioner) Synchronize(ctx context.Context, account domain.Account) (domain.Account, error) {
	_ = ctx
	p.log.Info("synchronizing account", "account", account.ID)

	synced := account
	synced.Username = account.Client.Email
	return synced, nil
}

// PanelURL returns the address of the AzuraCast panel itself.
func (p *Provisioner) PanelURL() string {
	return p.api.BaseURL()
}

// LoginURL requests a single-use login link for the client's remote user.
func (p *Provisioner) LoginURL(ctx context.Context, account domain.Account) (string, error) {
	binding, err := p.resolver.Resolve(ctx, account.Client.Email)
	if err != nil {
		return "", fmt.Errorf("resolve client: %w", err)
	}

	comment := "billing-login-" + uuid.NewString()
	loginURL, err := p.api.CreateLoginToken(ctx, binding.UserID, comment)
	if err != nil {
		return "", fmt.Errorf("create login token: %w", err)
	}
	return loginURL, nil
}

// binding returns the cached mapping when one exists, falling back to the
// resolver. The cache is a fast path only; a cache error is logged, not
// surfaced.
func (p *Provisioner) binding(ctx context.Context, account domain.Account) (domain.Binding, error) {
	if p.cache != nil {
		cached, err := p.cache.Get(ctx, account.ID)
		switch {
		case err == nil:
			return cached, nil
		case !errors.Is(err, domain.ErrBindingNotCached):
			p.log.Warn("read cached binding", "account", account.ID, "error", err)
		}
	}
	return p.resolver.Resolve(ctx, account.Client.Email)
}

func (p *Provisioner) stationID(ctx context.Context, account domain.Account) (int, error) {
	if account.StationID != 0 {
		return account.StationID, nil
	}

	binding, err := p.binding(ctx, account)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return 0, domain.ErrStationNotBound
		}
		return 0, fmt.Errorf("resolve account resources: %w", err)
	}
	if len(binding.StationIDs) == 0 {
		return 0, domain.ErrStationNotBound
	}
	return binding.StationIDs[0], nil
}

func (p *Provisioner) cacheBinding(ctx context.Context, id domain.AccountID, binding domain.Binding) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Put(ctx, id, binding); err != nil {
		p.log.Warn("cache binding", "account", id, "error", err)
	}
}
