// Package status renders account statuses for the terminal.
package status

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/casthost/azuracast-provisioner/internal/application"
)

type RenderOptions struct {
	Now time.Time
}

func Render(statuses []application.Status, opts RenderOptions) (string, error) {
	return renderView(statuses, opts, newStyles()), nil
}

func renderView(statuses []application.Status, opts RenderOptions, s styles) string {
	header := fmt.Sprintf("accounts: %d", len(statuses))
	if !opts.Now.IsZero() {
		header += " · " + opts.Now.Format("2006-01-02 15:04")
	}

	lines := []string{
		s.title.Render("AzuraCast Stations"),
		s.header.Render(header),
	}

	if len(statuses) == 0 {
		lines = append(lines, s.empty.Render("No accounts configured."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, status := range statuses {
		lines = append(lines, s.section.Render(renderAccount(status, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderAccount(status application.Status, s styles) string {
	parts := []string{
		s.account.Render(fmt.Sprintf("%s (%s)", status.Account.Domain, status.Account.ID)),
		s.detail.Render("client: " + status.Account.Client.Email),
	}

	if status.Binding == nil {
		parts = append(parts, s.warning.Render("not provisioned"))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	parts = append(parts,
		s.detail.Render("user: "+strconv.Itoa(status.Binding.UserID)),
		s.detail.Render("stations: "+joinIDs(status.Binding.StationIDs)),
		s.detail.Render("roles: "+joinIDs(status.Binding.RoleIDs)),
	)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func joinIDs(ids []int) string {
	if len(ids) == 0 {
		return "none"
	}

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, strconv.Itoa(id))
	}
	return strings.Join(out, ", ")
}
