package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/go-gym-api/internal/domain"
	"github.com/jmoiron/sqlx"
)

const reservationColumns = `id, user_id, session_id, status, created_at, updated_at`

// Book claims one seat of the session for the user. The duplicate check,
// seat count and insert all run after lockSession inside one transaction,
// so two bookers racing for the last seat cannot both succeed.
//
// The duplicate check runs before the capacity check: a client retrying a
// booking that already took the last seat gets ErrAlreadyBooked.
func (r *ClassRepo) Book(ctx context.Context, res *domain.Reservation) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		capacity, startsAt, err := lockSession(ctx, tx, res.SessionID)
		if err != nil {
			return err
		}

		var active int
		err = tx.GetContext(ctx, &active, tx.Rebind(
			`SELECT COUNT(*) FROM reservations
			 WHERE session_id = ? AND user_id = ? AND status = 'reserved'`), res.SessionID, res.UserID)
		if err != nil {
			return fmt.Errorf("check existing reservation: %w", err)
		}
		if active > 0 {
			return domain.ErrAlreadyBooked
		}

		reserved, err := countReserved(ctx, tx, res.SessionID)
		if err != nil {
			return err
		}
		av, err := domain.NewAvailability(res.SessionID, capacity, reserved, fromMillis(startsAt))
		if err != nil {
			return err
		}
		if av.Available == 0 {
			return domain.ErrSessionFull
		}

		_, err = tx.ExecContext(ctx, tx.Rebind(
			`INSERT INTO reservations (`+reservationColumns+`) VALUES (?, ?, ?, ?, ?, ?)`),
			res.ReservationID, res.UserID, res.SessionID, string(domain.ReservationReserved),
			toMillis(res.CreatedAt), toMillis(res.UpdatedAt),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrAlreadyBooked
			}
			return fmt.Errorf("insert reservation: %w", err)
		}
		res.Status = domain.ReservationReserved
		return nil
	})
}

// Cancel flips the user's active reservation to cancelled. Cancelling a
// reservation that is already cancelled succeeds; ErrNotFound means the
// user never booked the session.
func (r *ClassRepo) Cancel(ctx context.Context, userID, sessionID string, at time.Time) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(
			`UPDATE reservations SET status = 'cancelled', updated_at = ?
			 WHERE user_id = ? AND session_id = ? AND status = 'reserved'`), toMillis(at), userID, sessionID)
		if err != nil {
			return fmt.Errorf("cancel reservation: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("cancel reservation: %w", err)
		}
		if n > 0 {
			return nil
		}
		var previous int
		err = tx.GetContext(ctx, &previous, tx.Rebind(
			`SELECT COUNT(*) FROM reservations WHERE user_id = ? AND session_id = ?`), userID, sessionID)
		if err != nil {
			return fmt.Errorf("look up reservation: %w", err)
		}
		if previous == 0 {
			return fmt.Errorf("reservation not found: %w", domain.ErrNotFound)
		}
		return nil
	})
}

// ListBySession returns the session's roster, oldest first.
func (r *ClassRepo) ListBySession(ctx context.Context, sessionID string) ([]domain.Reservation, error) {
	return r.listReservations(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE session_id = ? ORDER BY created_at ASC, id ASC`,
		sessionID)
}

// ListByUser returns every reservation the user ever made, newest first.
func (r *ClassRepo) ListByUser(ctx context.Context, userID string) ([]domain.Reservation, error) {
	return r.listReservations(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID)
}

func (r *ClassRepo) listReservations(ctx context.Context, query string, arg string) ([]domain.Reservation, error) {
	var rows []reservationRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), arg); err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	out := make([]domain.Reservation, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}
