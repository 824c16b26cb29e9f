// Package capacity reports how many seats a class session has left.
package capacity

import (
	"context"

	"github.com/go-gym-api/internal/domain"
)

type sessionReader interface {
	GetSession(ctx context.Context, sessionID string) (*domain.ClassSession, domain.Availability, error)
}

// Ledger reads availability straight from the store on every call; nothing is cached.
type Ledger struct {
	repo sessionReader
}

func NewLedger(repo sessionReader) *Ledger {
	return &Ledger{repo: repo}
}

// Get returns the session with its capacity, reserved count, free seats
// and start. A negative availability surfaces as domain.ErrIntegrity.
func (l *Ledger) Get(ctx context.Context, sessionID string) (*domain.ClassSession, domain.Availability, error) {
	return l.repo.GetSession(ctx, sessionID)
}
