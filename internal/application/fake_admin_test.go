package application

import (
	"context"
	"fmt"

	"github.com/casthost/azuracast-provisioner/internal/domain"
	"github.com/casthost/azuracast-provisioner/internal/ports"
)

// fakeAdminAPI is an in-memory stand-in for the admin REST gateway. It hands
// out fixed ids for created resources and records every mutating call.
type fakeAdminAPI struct {
	services []domain.Service
	users    []domain.User
	roles    []domain.Role

	listServicesErr error
	listUsersErr    error
	listRolesErr    error

	createStationErr  error
	createRoleErr     error
	createUserErr     error
	setEnabledErr     error
	updateRolesErr    error
	updatePasswordErr error
	deleteUserErr     error
	deleteRoleErr     error
	deleteStationErr  error
	loginTokenErr     error

	loginURL         string
	lastLoginComment string

	calls []string
}

var _ ports.AdminAPI = (*fakeAdminAPI)(nil)

func newFakeAdminAPI() *fakeAdminAPI {
	return &fakeAdminAPI{
		services: []domain.Service{{Name: "nginx", Running: true}},
		loginURL: "https://radio.example.com/login_token/abc",
	}
}

func (f *fakeAdminAPI) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeAdminAPI) ListServices(context.Context) ([]domain.Service, error) {
	f.record("ListServices")
	return f.services, f.listServicesErr
}

func (f *fakeAdminAPI) ListUsers(context.Context) ([]domain.User, error) {
	f.record("ListUsers")
	return f.users, f.listUsersErr
}

func (f *fakeAdminAPI) ListRoles(context.Context) ([]domain.Role, error) {
	f.record("ListRoles")
	return f.roles, f.listRolesErr
}

func (f *fakeAdminAPI) CreateStation(_ context.Context, name string) (domain.Station, error) {
	f.record("CreateStation(%s)", name)
	if f.createStationErr != nil {
		return domain.Station{}, f.createStationErr
	}
	return domain.Station{ID: 10, Name: name}, nil
}

func (f *fakeAdminAPI) CreateRole(_ context.Context, name string, stationID int, permissions []string) (domain.Role, error) {
	f.record("CreateRole(%s,%d,%v)", name, stationID, permissions)
	if f.createRoleErr != nil {
		return domain.Role{}, f.createRoleErr
	}
	return domain.Role{
		ID:                 20,
		Name:               name,
		StationPermissions: []domain.StationPermission{{StationID: stationID, Permissions: permissions}},
	}, nil
}

func (f *fakeAdminAPI) CreateUser(_ context.Context, email, name string, roleIDs []int) (domain.User, error) {
	f.record("CreateUser(%s,%v)", email, roleIDs)
	if f.createUserErr != nil {
		return domain.User{}, f.createUserErr
	}
	return domain.User{ID: 30, Email: email, Name: name, RoleIDs: roleIDs}, nil
}

func (f *fakeAdminAPI) SetStationEnabled(_ context.Context, stationID int, enabled bool) error {
	f.record("SetStationEnabled(%d,%t)", stationID, enabled)
	return f.setEnabledErr
}

func (f *fakeAdminAPI) UpdateUserRoles(_ context.Context, userID int, roleIDs []int) error {
	f.record("UpdateUserRoles(%d,%v)", userID, roleIDs)
	return f.updateRolesErr
}

func (f *fakeAdminAPI) UpdateUserPassword(_ context.Context, userID int, password string) error {
	f.record("UpdateUserPassword(%d,%s)", userID, password)
	return f.updatePasswordErr
}

func (f *fakeAdminAPI) DeleteUser(_ context.Context, userID int) error {
	f.record("DeleteUser(%d)", userID)
	return f.deleteUserErr
}

func (f *fakeAdminAPI) DeleteRole(_ context.Context, roleID int) error {
	f.record("DeleteRole(%d)", roleID)
	return f.deleteRoleErr
}

func (f *fakeAdminAPI) DeleteStation(_ context.Context, stationID int) error {
	f.record("DeleteStation(%d)", stationID)
	return f.deleteStationErr
}

func (f *fakeAdminAPI) CreateLoginToken(_ context.Context, userID int, comment string) (string, error) {
	f.record("CreateLoginToken(%d)", userID)
	f.lastLoginComment = comment
	return f.loginURL, f.loginTokenErr
}

func (f *fakeAdminAPI) BaseURL() string {
	return "https://radio.example.com:443"
}

// mutations filters the recorded calls down to the ones that change remote
// state, leaving out the listing reads the resolver performs.
func (f *fakeAdminAPI) mutations() []string {
	var out []string
	for _, call := range f.calls {
		if call == "ListServices" || call == "ListUsers" || call == "ListRoles" {
			continue
		}
		out = append(out, call)
	}
	return out
}

type fakeBindingCache struct {
	entries map[domain.AccountID]domain.Binding
	getErr  error
	putErr  error

	deleted []domain.AccountID
}

var _ ports.BindingCache = (*fakeBindingCache)(nil)

func newFakeBindingCache() *fakeBindingCache {
	return &fakeBindingCache{entries: make(map[domain.AccountID]domain.Binding)}
}

func (c *fakeBindingCache) Get(_ context.Context, id domain.AccountID) (domain.Binding, error) {
	if c.getErr != nil {
		return domain.Binding{}, c.getErr
	}
	binding, ok := c.entries[id]
	if !ok {
		return domain.Binding{}, domain.ErrBindingNotCached
	}
	return binding, nil
}

func (c *fakeBindingCache) Put(_ context.Context, id domain.AccountID, binding domain.Binding) error {
	if c.putErr != nil {
		return c.putErr
	}
	c.entries[id] = binding
	return nil
}

func (c *fakeBindingCache) Delete(_ context.Context, id domain.AccountID) error {
	c.deleted = append(c.deleted, id)
	delete(c.entries, id)
	return nil
}
