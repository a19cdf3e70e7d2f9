package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/casthost/azuracast-provisioner/internal/domain"
	"github.com/casthost/azuracast-provisioner/internal/ports"
)

// Status pairs a billing account with its resolved remote binding. Binding is
// nil when the client has no remote user yet.
type Status struct {
	Account domain.Account
	Binding *domain.Binding
}

// StatusService answers read-only questions about accounts and their remote
// resources.
type StatusService struct {
	repo     ports.AccountRepository
	resolver *Resolver
}

func NewStatusService(repo ports.AccountRepository, resolver *Resolver) *StatusService {
	return &StatusService{repo: repo, resolver: resolver}
}

func (s *StatusService) GetStatus(ctx context.Context, id domain.AccountID) (Status, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Status{}, fmt.Errorf("get account by id: %w", err)
	}

	binding, err := s.resolver.Resolve(ctx, account.Client.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return Status{Account: account}, nil
		}
		return Status{}, err
	}
	return Status{Account: account, Binding: &binding}, nil
}

// GetStatusAll resolves every stored account against a single pair of remote
// listings.
func (s *StatusService) GetStatusAll(ctx context.Context) ([]Status, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	emails := make([]string, 0, len(accounts))
	for _, account := range accounts {
		emails = append(emails, account.Client.Email)
	}

	bindings, err := s.resolver.ResolveAll(ctx, emails)
	if err != nil {
		return nil, err
	}

	statuses := make([]Status, 0, len(accounts))
	for _, account := range accounts {
		status := Status{Account: account}
		if binding, ok := bindings[account.Client.Email]; ok {
			b := binding
			status.Binding = &b
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
