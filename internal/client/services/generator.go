package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/labaccess/internal/client/repositories/identities"
	"github.com/dmitrijs2005/labaccess/internal/common"
	"github.com/dmitrijs2005/labaccess/internal/logging"
	"github.com/dmitrijs2005/labaccess/internal/qr"
)

// Generator is one QR screen: the identity form, the saved identities of the
// screen's user type and the live token.
type Generator interface {
	UserType() qr.UserType
	AutoRenew() bool

	// Generate validates the form, saves the identity and issues a token for it.
	Generate(ctx context.Context, name, surname, email string) (qr.Token, error)

	// Saved lists the identities saved on this screen, oldest first.
	Saved(ctx context.Context) ([]identities.Record, error)

	// Select issues a fresh token for the saved identity at index.
	Select(ctx context.Context, index int) (qr.Token, error)

	// ToggleAutoRenew flips the screen preference and applies it to the live
	// token, if any. It returns the new preference.
	ToggleAutoRenew() (bool, error)

	Current() (qr.Token, bool)
	Payload() (string, error)
	// Snapshot returns the live token and its payload as one consistent view.
	Snapshot() (qr.Token, string, error)
	Close()
}

type generatorService struct {
	userType qr.UserType
	repo     identities.Repository
	manager  *qr.Manager
	logger   logging.Logger

	mu        sync.Mutex
	autoRenew bool
}

func NewGenerator(userType qr.UserType, autoRenew bool, repo identities.Repository, manager *qr.Manager, logger logging.Logger) Generator {
	return &generatorService{
		userType:  userType,
		repo:      repo,
		manager:   manager,
		logger:    logger.With("component", "generator", "user_type", userType),
		autoRenew: autoRenew,
	}
}

func (s *generatorService) UserType() qr.UserType { return s.userType }

func (s *generatorService) AutoRenew() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autoRenew
}

func (s *generatorService) Generate(ctx context.Context, name, surname, email string) (qr.Token, error) {
	id := qr.Identity{Name: name, Surname: surname, Email: email, UserType: s.userType}.Normalize()
	if err := id.Validate(); err != nil {
		return qr.Token{}, err
	}

	if _, err := s.repo.Append(ctx, id); err != nil {
		return qr.Token{}, fmt.Errorf("saving error: %w", err)
	}

	return s.manager.Issue(id, s.AutoRenew()), nil
}

func (s *generatorService) Saved(ctx context.Context) ([]identities.Record, error) {
	rows, err := s.repo.ListByUserType(ctx, s.userType)
	if err != nil {
		return nil, fmt.Errorf("error: %w", err)
	}
	return rows, nil
}

func (s *generatorService) Select(ctx context.Context, index int) (qr.Token, error) {
	rows, err := s.Saved(ctx)
	if err != nil {
		return qr.Token{}, err
	}
	if index < 0 || index >= len(rows) {
		return qr.Token{}, fmt.Errorf("saved identity %d: %w", index+1, common.ErrNotFound)
	}

	return s.manager.Issue(rows[index].Identity, s.AutoRenew()), nil
}

func (s *generatorService) ToggleAutoRenew() (bool, error) {
	s.mu.Lock()
	s.autoRenew = !s.autoRenew
	pref := s.autoRenew
	s.mu.Unlock()

	t, ok := s.manager.Current()
	if !ok || t.AutoRenew == pref {
		s.logger.Info(context.Background(), "auto-renew preference changed", "auto_renew", pref)
		return pref, nil
	}

	if _, err := s.manager.ToggleAutoRenew(); err != nil {
		return pref, err
	}
	return pref, nil
}

func (s *generatorService) Current() (qr.Token, bool) {
	return s.manager.Current()
}

func (s *generatorService) Payload() (string, error) {
	return s.manager.Payload()
}

func (s *generatorService) Snapshot() (qr.Token, string, error) {
	return s.manager.Snapshot()
}

func (s *generatorService) Close() {
	s.manager.Close()
}
