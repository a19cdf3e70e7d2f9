package domain

type AccountID string

// Account is the billing platform's view of one provisioned station. The
// billing host owns and persists it; the provisioner reads it and, for
// synchronize, returns a modified copy.
type Account struct {
	ID       AccountID
	Domain   string
	Username string
	Reseller bool
	Client   Client
	Package  Package

	// StationID is the externally assigned AzuraCast station id, when the
	// billing host recorded one. Zero means unknown; the resolver derives it
	// from the client email instead.
	StationID int
}

// Client is the billing contact behind an account.
type Client struct {
	Email    string
	FullName string
}

// Package is the service tier an account is sold under. Custom carries the
// per-package feature flags, keyed by flag name.
type Package struct {
	Name      string
	Quota     int64
	Bandwidth int64
	Custom    map[string]string
}

// CustomValue returns the raw custom value for a flag name, or "" when unset.
func (p Package) CustomValue(name string) string {
	if p.Custom == nil {
		return ""
	}
	return p.Custom[name]
}
