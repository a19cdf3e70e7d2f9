package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casthost/azuracast-provisioner/internal/domain"
)

func testAccount() domain.Account {
	return domain.Account{
		ID:     "42",
		Domain: "radio.example.com",
		Client: domain.Client{Email: "owner@example.com", FullName: "Radio Owner"},
		Package: domain.Package{
			Name:   "broadcast-basic",
			Custom: map[string]string{"manageStationBroadcasting": "true"},
		},
	}
}

func newTestProvisioner(api *fakeAdminAPI, opts ...ProvisionerOption) *Provisioner {
	return NewProvisioner(api, NewResolver(api), nil, opts...)
}

func TestCreateProvisionsStationRoleAndUser(t *testing.T) {
	api := newFakeAdminAPI()
	cache := newFakeBindingCache()
	p := newTestProvisioner(api, WithBindingCache(cache))

	result, err := p.Create(context.Background(), testAccount())
	require.NoError(t, err)

	assert.Equal(t, domain.Station{ID: 10, Name: "radio.example.com"}, result.Station)
	assert.Equal(t, 20, result.Role.ID)
	assert.Equal(t, 30, result.UserID)
	assert.True(t, result.UserCreated)

	require.Equal(t, []string{
		"CreateStation(radio.example.com)",
		"CreateRole(radio.example.com,10,[manage station broadcasting])",
		"CreateUser(owner@example.com,[20])",
	}, api.mutations())

	cached, err := cache.Get(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, domain.Binding{UserID: 30, RoleIDs: []int{20}, StationIDs: []int{10}}, cached)
}

func TestCreateAttachesRoleToExistingUser(t *testing.T) {
	api := newFakeAdminAPI()
	api.users = []domain.User{{ID: 30, Email: "owner@example.com", RoleIDs: []int{5}}}
	p := newTestProvisioner(api)

	result, err := p.Create(context.Background(), testAccount())
	require.NoError(t, err)

	assert.Equal(t, 30, result.UserID)
	assert.False(t, result.UserCreated)
	require.Equal(t, []string{
		"CreateStation(radio.example.com)",
		"CreateRole(radio.example.com,10,[manage station broadcasting])",
		"UpdateUserRoles(30,[5 20])",
	}, api.mutations())
}

func TestCreateStationFailureAbortsSequence(t *testing.T) {
	api := newFakeAdminAPI()
	api.createStationErr = errors.New("station response missing id")
	p := newTestProvisioner(api)

	_, err := p.Create(context.Background(), testAccount())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create station")

	require.Equal(t, []string{"CreateStation(radio.example.com)"}, api.mutations())
}

func TestCreateRoleFailureLeavesStationBehind(t *testing.T) {
	api := newFakeAdminAPI()
	api.createRoleErr = errors.New("boom")
	p := newTestProvisioner(api)

	_, err := p.Create(context.Background(), testAccount())
	require.Error(t, err)

	for _, call := range api.mutations() {
		assert.NotContains(t, call, "Delete", "rollback is off by default")
	}
}

func TestCreateRoleFailureRollsBackStationWhenEnabled(t *testing.T) {
	api := newFakeAdminAPI()
	api.createRoleErr = errors.New("boom")
	p := newTestProvisioner(api, WithRollback(true))

	_, err := p.Create(context.Background(), testAccount())
	require.Error(t, err)

	assert.Contains(t, api.mutations(), "DeleteStation(10)")
}

func TestCreateUserFailureRollsBackInReverseOrder(t *testing.T) {
	api := newFakeAdminAPI()
	api.createUserErr = errors.New("boom")
	p := newTestProvisioner(api, WithRollback(true))

	_, err := p.Create(context.Background(), testAccount())
	require.Error(t, err)

	mutations := api.mutations()
	require.Len(t, mutations, 5)
	assert.Equal(t, "DeleteRole(20)", mutations[3])
	assert.Equal(t, "DeleteStation(10)", mutations[4])
}

func TestSuspendTouchesNothingRemote(t *testing.T) {
	api := newFakeAdminAPI()
	p := newTestProvisioner(api)

	require.NoError(t, p.Suspend(context.Background(), testAccount()))
	assert.Empty(t, api.calls)
}

func TestUnsuspendUsesStoredStationID(t *testing.T) {
	api := newFakeAdminAPI()
	p := newTestProvisioner(api)

	account := testAccount()
	account.StationID = 7

	require.NoError(t, p.Unsuspend(context.Background(), account))
	assert.Equal(t, []string{"SetStationEnabled(7,true)"}, api.calls)
}

func TestUnsuspendResolvesStationWhenUnknown(t *testing.T) {
	api := newFakeAdminAPI()
	api.users = []domain.User{{ID: 30, Email: "owner@example.com", RoleIDs: []int{20}}}
	api.roles = []domain.Role{{ID: 20, StationPermissions: []domain.StationPermission{{StationID: 10}}}}
	p := newTestProvisioner(api)

	require.NoError(t, p.Unsuspend(context.Background(), testAccount()))
	assert.Equal(t, []string{"SetStationEnabled(10,true)"}, api.mutations())
}

func TestUnsuspendWithoutStation(t *testing.T) {
	api := newFakeAdminAPI()
	api.users = []domain.User{{ID: 30, Email: "owner@example.com", RoleIDs: []int{20}}}
	api.roles = []domain.Role{{ID: 20}}
	p := newTestProvisioner(api)

	err := p.Unsuspend(context.Background(), testAccount())
	require.ErrorIs(t, err, domain.ErrStationNotBound)
}

func TestCancelUsesCachedBinding(t *testing.T) {
	api := newFakeAdminAPI()
	cache := newFakeBindingCache()
	cache.entries["42"] = domain.Binding{StationIDs: []int{10}}
	p := newTestProvisioner(api, WithBindingCache(cache))

	require.NoError(t, p.Cancel(context.Background(), testAccount()))

	assert.Equal(t, []string{"DeleteStation(10)"}, api.calls, "a station-only binding issues exactly one delete")
	assert.Equal(t, []domain.AccountID{"42"}, cache.deleted)
}

func TestCancelDeletesEverythingResolved(t *testing.T) {
	api := newFakeAdminAPI()
	api.users = []domain.User{{ID: 30, Email: "owner@example.com", RoleIDs: []int{20}}}
	api.roles = []domain.Role{{ID: 20, StationPermissions: []domain.StationPermission{{StationID: 10}}}}
	p := newTestProvisioner(api)

	require.NoError(t, p.Cancel(context.Background(), testAccount()))
	assert.Equal(t, []string{"DeleteUser(30)", "DeleteRole(20)", "DeleteStation(10)"}, api.mutations())
}

func TestCancelContinuesPastFailures(t *testing.T) {
	api := newFakeAdminAPI()
	api.users = []domain.User{{ID: 30, Email: "owner@example.com", RoleIDs: []int{20}}}
	api.roles = []domain.Role{{ID: 20, StationPermissions: []domain.StationPermission{{StationID: 10}}}}
	api.deleteUserErr = errors.New("user is locked")
	p := newTestProvisioner(api)

	err := p.Cancel(context.Background(), testAccount())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete user 30")

	assert.Contains(t, api.mutations(), "DeleteRole(20)")
	assert.Contains(t, api.mutations(), "DeleteStation(10)")
}

func TestCancelWithNoRemoteUser(t *testing.T) {
	api := newFakeAdminAPI()
	p := newTestProvisioner(api)

	require.NoError(t, p.Cancel(context.Background(), testAccount()))
	assert.Empty(t, api.mutations())
}

func TestTestConnection(t *testing.T) {
	api := newFakeAdminAPI()
	p := newTestProvisioner(api)
	require.NoError(t, p.TestConnection(context.Background()))
}

func TestTestConnectionNoServices(t *testing.T) {
	api := newFakeAdminAPI()
	api.services = nil
	p := newTestProvisioner(api)

	err := p.TestConnection(context.Background())
	require.EqualError(t, err, "azuracast reported no services")
}

func TestChangePassword(t *testing.T) {
	api := newFakeAdminAPI()
	api.users = []domain.User{{ID: 30, Email: "owner@example.com"}}
	p := newTestProvisioner(api)

	require.NoError(t, p.ChangePassword(context.Background(), testAccount(), "hunter2"))
	assert.Equal(t, []string{"UpdateUserPassword(30,hunter2)"}, api.mutations())
}

func TestChangePasswordUnknownUser(t *testing.T) {
	api := newFakeAdminAPI()
	p := newTestProvisioner(api)

	err := p.ChangePassword(context.Background(), testAccount(), "hunter2")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestChangePackageIsLogOnly(t *testing.T) {
	api := newFakeAdminAPI()
	p := newTestProvisioner(api)

	require.NoError(t, p.ChangePackage(context.Background(), testAccount(), domain.Package{Name: "broadcast-pro"}))
	assert.Empty(t, api.calls)
}

func TestSynchronizeAlignsUsernameToEmail(t *testing.T) {
	p := newTestProvisioner(newFakeAdminAPI())

	account := testAccount()
	account.Username = "legacy-login"

	synced, err := p.Synchronize(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", synced.Username)
	assert.Equal(t, "legacy-login", account.Username, "input account is not mutated")
}

func TestPanelURL(t *testing.T) {
	p := newTestProvisioner(newFakeAdminAPI())
	assert.Equal(t, "https://radio.example.com:443", p.PanelURL())
}

func TestLoginURL(t *testing.T) {
	api := newFakeAdminAPI()
	api.users = []domain.User{{ID: 30, Email: "owner@example.com"}}
	p := newTestProvisioner(api)

	url, err := p.LoginURL(context.Background(), testAccount())
	require.NoError(t, err)
	assert.Equal(t, "https://radio.example.com/login_token/abc", url)
	assert.True(t, strings.HasPrefix(api.lastLoginComment, "billing-login-"), api.lastLoginComment)
}

func TestLoginURLUnknownUser(t *testing.T) {
	p := newTestProvisioner(newFakeAdminAPI())

	_, err := p.LoginURL(context.Background(), testAccount())
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}
