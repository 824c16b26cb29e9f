package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-gym-api/internal/domain"
	"github.com/jmoiron/sqlx"
)

const sessionColumns = `s.id, s.name, s.description, s.starts_at, s.ends_at, s.trainer_id, s.capacity, s.created_at, s.updated_at`

// reservedCountExpr counts the live reservations of the outer session row.
const reservedCountExpr = `(SELECT COUNT(*) FROM reservations r WHERE r.session_id = s.id AND r.status = 'reserved')`

type sessionRow struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	StartsAt    int64  `db:"starts_at"`
	EndsAt      int64  `db:"ends_at"`
	TrainerID   string `db:"trainer_id"`
	Capacity    int    `db:"capacity"`
	CreatedAt   int64  `db:"created_at"`
	UpdatedAt   int64  `db:"updated_at"`
	Reserved    int    `db:"reserved"`
}

func (r sessionRow) toDomain() domain.ClassSession {
	return domain.ClassSession{
		SessionID:   r.ID,
		Name:        r.Name,
		Description: r.Description,
		StartsAt:    fromMillis(r.StartsAt),
		EndsAt:      fromMillis(r.EndsAt),
		TrainerID:   r.TrainerID,
		Capacity:    r.Capacity,
		CreatedAt:   fromMillis(r.CreatedAt),
		UpdatedAt:   fromMillis(r.UpdatedAt),
	}
}

func (r sessionRow) availability() (domain.Availability, error) {
	return domain.NewAvailability(r.ID, r.Capacity, r.Reserved, fromMillis(r.StartsAt))
}

type reservationRow struct {
	ID        string `db:"id"`
	UserID    string `db:"user_id"`
	SessionID string `db:"session_id"`
	Status    string `db:"status"`
	CreatedAt int64  `db:"created_at"`
	UpdatedAt int64  `db:"updated_at"`
}

func (r reservationRow) toDomain() domain.Reservation {
	return domain.Reservation{
		ReservationID: r.ID,
		UserID:        r.UserID,
		SessionID:     r.SessionID,
		Status:        domain.ReservationStatus(r.Status),
		CreatedAt:     fromMillis(r.CreatedAt),
		UpdatedAt:     fromMillis(r.UpdatedAt),
	}
}

// ClassRepo stores class sessions and their reservations.
type ClassRepo struct {
	db *sqlx.DB
}

func NewClassRepo(db *sqlx.DB) *ClassRepo {
	return &ClassRepo{db: db}
}

func (r *ClassRepo) CreateSession(ctx context.Context, s *domain.ClassSession) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO class_sessions
		(id, name, description, starts_at, ends_at, trainer_id, capacity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		s.SessionID, s.Name, s.Description,
		toMillis(s.StartsAt), toMillis(s.EndsAt),
		s.TrainerID, s.Capacity,
		toMillis(s.CreatedAt), toMillis(s.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("class session %s: %w", s.SessionID, domain.ErrConflict)
		}
		return fmt.Errorf("create class session: %w", err)
	}
	return nil
}

// GetSession returns the session together with its availability, read in one statement.
func (r *ClassRepo) GetSession(ctx context.Context, sessionID string) (*domain.ClassSession, domain.Availability, error) {
	var row sessionRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(
		`SELECT `+sessionColumns+`, `+reservedCountExpr+` AS reserved
		 FROM class_sessions s WHERE s.id = ?`), sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.Availability{}, fmt.Errorf("class session not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, domain.Availability{}, fmt.Errorf("get class session: %w", err)
	}
	av, err := row.availability()
	if err != nil {
		return nil, av, err
	}
	s := row.toDomain()
	return &s, av, nil
}

// ListAvailable returns sessions starting at or after now that still have
// free seats, ordered by start time and then id.
func (r *ClassRepo) ListAvailable(ctx context.Context, now time.Time) ([]domain.AvailableClass, error) {
	var rows []sessionRow
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(
		`SELECT `+sessionColumns+`, `+reservedCountExpr+` AS reserved
		 FROM class_sessions s
		 WHERE s.starts_at >= ?
		 ORDER BY s.starts_at ASC, s.id ASC`), toMillis(now))
	if err != nil {
		return nil, fmt.Errorf("list class sessions: %w", err)
	}
	classes := make([]domain.AvailableClass, 0, len(rows))
	for _, row := range rows {
		av, err := row.availability()
		if err != nil {
			return nil, err
		}
		if av.Available == 0 {
			continue
		}
		classes = append(classes, domain.AvailableClass{ClassSession: row.toDomain(), Available: av.Available})
	}
	return classes, nil
}

// lockSession takes the session's row lock for the rest of tx and returns
// its capacity and start. Concurrent writers on the same session queue
// here: Postgres blocks on the row, SQLite on its single writer lock.
func lockSession(ctx context.Context, tx *sqlx.Tx, sessionID string) (capacity int, startsAt int64, err error) {
	err = tx.QueryRowxContext(ctx, tx.Rebind(
		`UPDATE class_sessions SET booking_seq = booking_seq + 1
		 WHERE id = ?
		 RETURNING capacity, starts_at`), sessionID).Scan(&capacity, &startsAt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, fmt.Errorf("class session not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("lock class session: %w", err)
	}
	return capacity, startsAt, nil
}

func countReserved(ctx context.Context, tx *sqlx.Tx, sessionID string) (int, error) {
	var n int
	err := tx.GetContext(ctx, &n, tx.Rebind(
		`SELECT COUNT(*) FROM reservations WHERE session_id = ? AND status = 'reserved'`), sessionID)
	if err != nil {
		return 0, fmt.Errorf("count reservations: %w", err)
	}
	return n, nil
}

// UpdateSession replaces the editable fields of a session. Capacity may not
// drop below the seats already reserved.
func (r *ClassRepo) UpdateSession(ctx context.Context, s *domain.ClassSession) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, _, err := lockSession(ctx, tx, s.SessionID); err != nil {
			return err
		}
		reserved, err := countReserved(ctx, tx, s.SessionID)
		if err != nil {
			return err
		}
		if s.Capacity < reserved {
			return fmt.Errorf("capacity %d is below %d reserved seats: %w", s.Capacity, reserved, domain.ErrConflict)
		}
		_, err = tx.ExecContext(ctx, tx.Rebind(`
			UPDATE class_sessions
			SET name = ?, description = ?, starts_at = ?, ends_at = ?, trainer_id = ?, capacity = ?, updated_at = ?
			WHERE id = ?`),
			s.Name, s.Description, toMillis(s.StartsAt), toMillis(s.EndsAt),
			s.TrainerID, s.Capacity, toMillis(s.UpdatedAt), s.SessionID,
		)
		if err != nil {
			return fmt.Errorf("update class session: %w", err)
		}
		return nil
	})
}

// DeleteSession removes the session and all of its reservations in one
// transaction. Once the reservations are gone any failure is reported as
// an integrity error; the rollback leaves both tables untouched.
func (r *ClassRepo) DeleteSession(ctx context.Context, sessionID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM reservations WHERE session_id = ?`), sessionID); err != nil {
		return fmt.Errorf("delete reservations: %w", err)
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM class_sessions WHERE id = ?`), sessionID)
	if err != nil {
		return fmt.Errorf("delete class session %s: %w: %w", sessionID, domain.ErrIntegrity, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete class session %s: %w: %w", sessionID, domain.ErrIntegrity, err)
	}
	if n == 0 {
		return fmt.Errorf("class session not found: %w", domain.ErrNotFound)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit class session delete %s: %w: %w", sessionID, domain.ErrIntegrity, err)
	}
	return nil
}
