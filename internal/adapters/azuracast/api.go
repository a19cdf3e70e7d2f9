package azuracast

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/casthost/azuracast-provisioner/internal/domain"
	"github.com/casthost/azuracast-provisioner/internal/ports"
)

var _ ports.AdminAPI = (*Client)(nil)

type stationResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type permissionsBody struct {
	Global  []string                `json:"global"`
	Station []stationPermissionBody `json:"station"`
}

type stationPermissionBody struct {
	ID          int      `json:"id"`
	Permissions []string `json:"permissions"`
}

type roleResponse struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Permissions permissionsBody `json:"permissions"`
}

type roleRef struct {
	ID int `json:"id"`
}

type userResponse struct {
	ID    int       `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Roles []roleRef `json:"roles"`
}

type serviceResponse struct {
	Name    string `json:"name"`
	Running bool   `json:"running"`
}

type loginTokenResponse struct {
	Links struct {
		Login string `json:"login"`
	} `json:"links"`
}

func (c *Client) ListServices(ctx context.Context) ([]domain.Service, error) {
	var payload []serviceResponse
	if err := c.do(ctx, http.MethodGet, "/api/admin/services", nil, &payload); err != nil {
		return nil, err
	}

	services := make([]domain.Service, 0, len(payload))
	for _, entry := range payload {
		services = append(services, domain.Service{Name: entry.Name, Running: entry.Running})
	}
	return services, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var payload []userResponse
	if err := c.do(ctx, http.MethodGet, "/api/admin/users", nil, &payload); err != nil {
		return nil, err
	}

	users := make([]domain.User, 0, len(payload))
	for _, entry := range payload {
		users = append(users, fromUserResponse(entry))
	}
	return users, nil
}

func (c *Client) ListRoles(ctx context.Context) ([]domain.Role, error) {
	var payload []roleResponse
	if err := c.do(ctx, http.MethodGet, "/api/admin/roles", nil, &payload); err != nil {
		return nil, err
	}

	roles := make([]domain.Role, 0, len(payload))
	for _, entry := range payload {
		roles = append(roles, fromRoleResponse(entry))
	}
	return roles, nil
}

func (c *Client) CreateStation(ctx context.Context, name string) (domain.Station, error) {
	var created stationResponse
	err := c.do(ctx, http.MethodPost, "/api/admin/stations", map[string]any{"name": name}, &created)
	if err != nil {
		return domain.Station{}, err
	}
	if created.ID == 0 {
		return domain.Station{}, errors.New("station response missing id")
	}
	return domain.Station{ID: created.ID, Name: created.Name}, nil
}

func (c *Client) CreateRole(ctx context.Context, name string, stationID int, permissions []string) (domain.Role, error) {
	if permissions == nil {
		permissions = []string{}
	}
	body := map[string]any{
		"name": name,
		"permissions": permissionsBody{
			Global: []string{},
			Station: []stationPermissionBody{
				{ID: stationID, Permissions: permissions},
			},
		},
	}

	var created roleResponse
	if err := c.do(ctx, http.MethodPost, "/api/admin/roles", body, &created); err != nil {
		return domain.Role{}, err
	}
	if created.ID == 0 {
		return domain.Role{}, errors.New("role response missing id")
	}
	return fromRoleResponse(created), nil
}

func (c *Client) CreateUser(ctx context.Context, email, name string, roleIDs []int) (domain.User, error) {
	body := map[string]any{
		"email": email,
		"name":  name,
		"roles": roleIDStrings(roleIDs),
	}

	var created userResponse
	if err := c.do(ctx, http.MethodPost, "/api/admin/users", body, &created); err != nil {
		return domain.User{}, err
	}
	if created.ID == 0 {
		return domain.User{}, errors.New("user response missing id")
	}
	return fromUserResponse(created), nil
}

func (c *Client) SetStationEnabled(ctx context.Context, stationID int, enabled bool) error {
	path := "/api/admin/station/" + strconv.Itoa(stationID)
	return c.do(ctx, http.MethodPut, path, map[string]any{"is_enabled": enabled}, nil)
}

func (c *Client) UpdateUserRoles(ctx context.Context, userID int, roleIDs []int) error {
	path := "/api/admin/user/" + strconv.Itoa(userID)
	return c.do(ctx, http.MethodPut, path, map[string]any{"roles": roleIDStrings(roleIDs)}, nil)
}

func (c *Client) UpdateUserPassword(ctx context.Context, userID int, password string) error {
	path := "/api/admin/user/" + strconv.Itoa(userID)
	return c.do(ctx, http.MethodPut, path, map[string]any{"auth_password": password}, nil)
}

func (c *Client) DeleteUser(ctx context.Context, userID int) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/user/"+strconv.Itoa(userID), nil, nil)
}

func (c *Client) DeleteRole(ctx context.Context, roleID int) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/role/"+strconv.Itoa(roleID), nil, nil)
}

func (c *Client) DeleteStation(ctx context.Context, stationID int) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/station/"+strconv.Itoa(stationID), nil, nil)
}

func (c *Client) CreateLoginToken(ctx context.Context, userID int, comment string) (string, error) {
	body := map[string]any{
		"user":    userID,
		"type":    "login",
		"comment": comment,
	}

	var created loginTokenResponse
	if err := c.do(ctx, http.MethodPost, "/api/admin/login_tokens", body, &created); err != nil {
		return "", err
	}
	if created.Links.Login == "" {
		return "", errors.New("login token response missing login link")
	}
	return created.Links.Login, nil
}

func fromUserResponse(entry userResponse) domain.User {
	roleIDs := make([]int, 0, len(entry.Roles))
	for _, role := range entry.Roles {
		roleIDs = append(roleIDs, role.ID)
	}
	return domain.User{ID: entry.ID, Email: entry.Email, Name: entry.Name, RoleIDs: roleIDs}
}

func fromRoleResponse(entry roleResponse) domain.Role {
	stationPerms := make([]domain.StationPermission, 0, len(entry.Permissions.Station))
	for _, station := range entry.Permissions.Station {
		stationPerms = append(stationPerms, domain.StationPermission{
			StationID:   station.ID,
			Permissions: station.Permissions,
		})
	}
	return domain.Role{
		ID:                 entry.ID,
		Name:               entry.Name,
		GlobalPermissions:  entry.Permissions.Global,
		StationPermissions: stationPerms,
	}
}

// roleIDStrings renders role ids as strings; the admin API accepts them in
// either form and the panel itself sends strings.
func roleIDStrings(roleIDs []int) []string {
	out := make([]string, 0, len(roleIDs))
	for _, id := range roleIDs {
		out = append(out, strconv.Itoa(id))
	}
	return out
}
