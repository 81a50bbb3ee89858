// Package economy holds the points registry: registration, balances,
// spending and the slot machine.
package economy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/bucksy-bot/bucksy/bucksy/database"
	"github.com/bucksy-bot/bucksy/bucksy/database/models"
	"github.com/bucksy-bot/bucksy/bucksy/database/repositories"
)

var (
	ErrNotRegistered     = errors.New("user is not registered")
	ErrAlreadyRegistered = errors.New("user is already registered")
)

// InsufficientFundsError carries the balance the user actually has.
type InsufficientFundsError struct {
	Balance int64
	Needed  int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient points: have %d, need %d", e.Balance, e.Needed)
}

type Service struct {
	users          repositories.UserRepository
	startingPoints int64
	intn           func(n int) int
}

type ServiceOpt func(s *Service)

// WithRand replaces the reel source, used by tests.
func WithRand(intn func(n int) int) ServiceOpt {
	return func(s *Service) {
		s.intn = intn
	}
}

func NewService(users repositories.UserRepository, startingPoints int64, opts ...ServiceOpt) *Service {
	s := &Service{users: users, startingPoints: startingPoints, intn: rand.IntN}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Register(ctx context.Context, userID string) (*models.User, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check registration: %w", err)
	}
	if exists {
		return nil, ErrAlreadyRegistered
	}

	user, err := s.users.Create(ctx, userID, s.startingPoints)
	if errors.Is(err, database.ErrDuplicate) {
		return nil, ErrAlreadyRegistered
	}
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	slog.Info("User registered",
		slog.String("type", "db"),
		slog.String("user_id", userID),
		slog.Int64("points", user.Points))
	return user, nil
}

func (s *Service) Balance(ctx context.Context, userID string) (int64, error) {
	balance, err := s.users.GetBalance(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		return 0, ErrNotRegistered
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// Spend removes amount from the balance and returns what is left.
func (s *Service) Spend(ctx context.Context, userID string, amount int64) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("amount must not be negative: %d", amount)
	}

	balance, err := s.users.Spend(ctx, userID, amount)
	switch {
	case errors.Is(err, database.ErrNotFound):
		return 0, ErrNotRegistered
	case errors.Is(err, database.ErrInsufficientFunds):
		current, balanceErr := s.Balance(ctx, userID)
		if balanceErr != nil {
			return 0, balanceErr
		}
		return 0, &InsufficientFundsError{Balance: current, Needed: amount}
	case err != nil:
		return 0, fmt.Errorf("failed to spend points: %w", err)
	}
	return balance, nil
}

// Award adds points for registered users. Unregistered users are reported
// with ErrNotRegistered and nothing is written.
func (s *Service) Award(ctx context.Context, userID string, points int64) (int64, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to check registration: %w", err)
	}
	if !exists {
		return 0, ErrNotRegistered
	}

	balance, err := s.users.UpdateBalance(ctx, userID, points)
	if errors.Is(err, database.ErrNotFound) {
		return 0, ErrNotRegistered
	}
	if err != nil {
		return 0, fmt.Errorf("failed to award points: %w", err)
	}
	return balance, nil
}

// Spin charges SpinCost, rolls the reels and pays out on three of a kind.
func (s *Service) Spin(ctx context.Context, userID string) (SpinResult, error) {
	balance, err := s.Spend(ctx, userID, SpinCost)
	if err != nil {
		return SpinResult{}, err
	}

	res := Roll(s.intn)
	res.Balance = balance
	if !res.Win {
		return res, nil
	}

	balance, err = s.users.UpdateBalance(ctx, userID, res.Payout)
	if err != nil {
		return res, fmt.Errorf("failed to pay out spin: %w", err)
	}
	res.Balance = balance

	slog.Info("Slot machine jackpot",
		slog.String("type", "cmd"),
		slog.String("user_id", userID),
		slog.Int64("payout", res.Payout))
	return res, nil
}
