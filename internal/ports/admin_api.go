package ports

import (
	"context"

	"github.com/casthost/azuracast-provisioner/internal/domain"
)

// AdminAPI is the slice of the AzuraCast admin REST API the provisioner
// needs. Implementations make one blocking HTTP call per method; the create
// methods fail when the response lacks the id of the created resource.
type AdminAPI interface {
	ListServices(ctx context.Context) ([]domain.Service, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	ListRoles(ctx context.Context) ([]domain.Role, error)

	CreateStation(ctx context.Context, name string) (domain.Station, error)
	CreateRole(ctx context.Context, name string, stationID int, permissions []string) (domain.Role, error)
	CreateUser(ctx context.Context, email, name string, roleIDs []int) (domain.User, error)

	SetStationEnabled(ctx context.Context, stationID int, enabled bool) error
	UpdateUserRoles(ctx context.Context, userID int, roleIDs []int) error
	UpdateUserPassword(ctx context.Context, userID int, password string) error

	DeleteUser(ctx context.Context, userID int) error
	DeleteRole(ctx context.Context, roleID int) error
	DeleteStation(ctx context.Context, stationID int) error

	CreateLoginToken(ctx context.Context, userID int, comment string) (string, error)

	// BaseURL returns the panel address the client is configured against,
	// e.g. "https://radio.example.com:443".
	BaseURL() string
}
