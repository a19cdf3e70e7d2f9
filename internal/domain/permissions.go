package domain

import (
	"strings"
	"unicode"
)

// StationPermissionFlags lists the package custom-value keys the provisioner
// understands. Each one toggles the matching AzuraCast station permission.
var StationPermissionFlags = []string{
	"viewStationManagement",
	"viewStationReports",
	"viewStationLogs",
	"manageStationProfile",
	"manageStationBroadcasting",
	"manageStationStreamers",
	"manageStationMounts",
	"manageStationRemotes",
	"manageStationMedia",
	"deleteStationMedia",
	"manageStationAutomation",
	"manageStationWebhooks",
	"manageStationPodcasts",
}

// EnabledPermissions derives the role permission list from the package's
// custom flags. A flag counts as enabled only when its value string-equals
// "true"; enabled flag names are emitted in the wire form AzuraCast expects.
func (p Package) EnabledPermissions() []string {
	enabled := make([]string, 0, len(StationPermissionFlags))
	for _, flag := range StationPermissionFlags {
		if p.CustomValue(flag) == "true" {
			enabled = append(enabled, PermissionPhrase(flag))
		}
	}
	return enabled
}

// PermissionPhrase converts a camel-case flag name into the space-separated
// lowercase phrase used on the wire: "manageStationMedia" becomes
// "manage station media".
func PermissionPhrase(flag string) string {
	var b strings.Builder
	b.Grow(len(flag) + 4)
	for i, r := range flag {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
