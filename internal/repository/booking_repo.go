package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/lib/pq"

	"skillmarket/internal/db"
	"skillmarket/internal/entities"
	"skillmarket/internal/schedule"
)

const dateLayout = "2006-01-02"

type BookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(database *sql.DB) *BookingRepository {
	return &BookingRepository{DB: database}
}

// Create inserts a new booking. The partial unique index on
// (offering_id, date, slot) over occupying statuses is the authoritative
// conflict check; a violation surfaces as schedule.ErrSlotUnavailable so two
// racing requests cannot both win.
func (r *BookingRepository) Create(b *db.Booking) error {
	query := `
		INSERT INTO bookings
		(code, offering_id, requester_id, owner_id, date, slot, status, payment_status, stripe_session_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	err := r.DB.QueryRow(query,
		b.Code,
		b.OfferingID,
		b.RequesterID,
		b.OwnerID,
		b.Date,
		b.Slot,
		b.Status,
		b.PaymentStatus,
		b.StripeSessionID,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return schedule.ErrSlotUnavailable
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) GetByCode(code string) (*db.Booking, error) {
	return r.getOne(`WHERE code = $1`, code)
}

func (r *BookingRepository) GetByStripeSessionID(sessionID string) (*db.Booking, error) {
	return r.getOne(`WHERE stripe_session_id = $1`, sessionID)
}

func (r *BookingRepository) getOne(where string, arg interface{}) (*db.Booking, error) {
	var b db.Booking
	query := `
		SELECT id, code, offering_id, requester_id, owner_id, date, slot, status,
		       payment_status, COALESCE(stripe_session_id, ''), created_at, updated_at
		FROM bookings ` + where
	err := r.DB.QueryRow(query, arg).Scan(
		&b.ID, &b.Code, &b.OfferingID, &b.RequesterID, &b.OwnerID, &b.Date, &b.Slot, &b.Status,
		&b.PaymentStatus, &b.StripeSessionID, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query booking: %w", err)
	}
	return &b, nil
}

func (r *BookingRepository) UpdateStatus(id int64, status string) error {
	result, err := r.DB.Exec(
		`UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("update booking %d status: %w", id, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *BookingRepository) UpdatePaymentStatus(id int64, paymentStatus string) error {
	_, err := r.DB.Exec(
		`UPDATE bookings SET payment_status = $2, updated_at = NOW() WHERE id = $1`,
		id, paymentStatus,
	)
	if err != nil {
		return fmt.Errorf("update booking %d payment status: %w", id, err)
	}
	return nil
}

// ListByUser returns bookings the user participates in, as requester or as
// offering owner, newest first.
func (r *BookingRepository) ListByUser(userID int64, limit, offset int) (*entities.BookingsList, error) {
	var total int64
	err := r.DB.QueryRow(
		`SELECT COUNT(*) FROM bookings WHERE requester_id = $1 OR owner_id = $1`,
		userID,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	query := `
		SELECT b.code, b.offering_id, o.title, b.requester_id, ru.name,
		       b.owner_id, ou.name, b.date, b.slot, b.status, b.payment_status,
		       b.created_at, b.updated_at
		FROM bookings b
		JOIN offerings o ON o.id = b.offering_id
		JOIN users ru ON ru.id = b.requester_id
		JOIN users ou ON ou.id = b.owner_id
		WHERE b.requester_id = $1 OR b.owner_id = $1
		ORDER BY b.date DESC, b.created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.DB.Query(query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	list := &entities.BookingsList{Total: total, Limit: limit, Offset: offset}
	for rows.Next() {
		var resp entities.BookingResponse
		var date time.Time
		err := rows.Scan(
			&resp.Code, &resp.OfferingID, &resp.OfferingTitle, &resp.RequesterID, &resp.RequesterName,
			&resp.OwnerID, &resp.OwnerName, &date, &resp.Slot, &resp.Status, &resp.PaymentStatus,
			&resp.CreatedAt, &resp.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		resp.Date = date.Format(dateLayout)
		list.Bookings = append(list.Bookings, resp)
	}
	return list, rows.Err()
}

// AdminList returns all bookings, optionally filtered by date and status.
func (r *BookingRepository) AdminList(date, status string) ([]db.Booking, error) {
	query := `
		SELECT id, code, offering_id, requester_id, owner_id, date, slot, status,
		       payment_status, COALESCE(stripe_session_id, ''), created_at, updated_at
		FROM bookings WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if date != "" {
		query += " AND date = $" + strconv.Itoa(idx)
		args = append(args, date)
		idx++
	}
	if status != "" {
		query += " AND status = $" + strconv.Itoa(idx)
		args = append(args, status)
		idx++
	}
	query += " ORDER BY date DESC, created_at DESC"

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		var b db.Booking
		err := rows.Scan(
			&b.ID, &b.Code, &b.OfferingID, &b.RequesterID, &b.OwnerID, &b.Date, &b.Slot, &b.Status,
			&b.PaymentStatus, &b.StripeSessionID, &b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
