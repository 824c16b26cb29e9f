package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-gym-api/internal/domain"
	"github.com/jmoiron/sqlx"
)

type membershipRow struct {
	UserID    string `db:"user_id"`
	Active    bool   `db:"active"`
	Type      string `db:"type"`
	UpdatedAt int64  `db:"updated_at"`
}

// MembershipRepo reads memberships maintained by the billing side.
type MembershipRepo struct {
	db *sqlx.DB
}

func NewMembershipRepo(db *sqlx.DB) *MembershipRepo {
	return &MembershipRepo{db: db}
}

func (r *MembershipRepo) Get(ctx context.Context, userID string) (*domain.Membership, error) {
	var row membershipRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(
		`SELECT user_id, active, type, updated_at FROM memberships WHERE user_id = ?`), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("membership not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get membership: %w", err)
	}
	return &domain.Membership{
		UserID:    row.UserID,
		Active:    row.Active,
		Type:      domain.MembershipType(row.Type),
		UpdatedAt: fromMillis(row.UpdatedAt),
	}, nil
}
