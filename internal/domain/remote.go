package domain

// Remote AzuraCast resources. A station always has exactly one role scoping
// it; a user references one role per station it administers. None of these
// are persisted locally. Every operation that needs them re-derives the
// mapping from the live user and role listings.

type Station struct {
	ID   int
	Name string
}

type Role struct {
	ID                 int
	Name               string
	GlobalPermissions  []string
	StationPermissions []StationPermission
}

// StationPermission scopes a permission set to one station.
type StationPermission struct {
	StationID   int
	Permissions []string
}

type User struct {
	ID      int
	Email   string
	Name    string
	RoleIDs []int
}

// Service is one AzuraCast-managed backend service, used only as a
// connectivity probe.
type Service struct {
	Name    string
	Running bool
}

// Binding is the resolved mapping from a client email onto remote resources.
type Binding struct {
	UserID     int
	RoleIDs    []int
	StationIDs []int
}
