package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"skillmarket/internal/db"
	"skillmarket/internal/schedule"
)

type OfferingRepository struct {
	DB *sql.DB
}

func NewOfferingRepository(database *sql.DB) *OfferingRepository {
	return &OfferingRepository{DB: database}
}

func (r *OfferingRepository) Create(o *db.Offering) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO offerings (owner_id, title, description, duration_min, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	err = tx.QueryRow(query, o.OwnerID, o.Title, o.Description, o.DurationMin, o.Price).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert offering: %w", err)
	}

	if err := insertSlots(tx, o.ID, o.Slots); err != nil {
		return err
	}
	return tx.Commit()
}

// insertSlots stores the declared slot labels with their position, since the
// declared order drives default selection.
func insertSlots(tx *sql.Tx, offeringID int64, slots []string) error {
	for i, label := range slots {
		_, err := tx.Exec(
			`INSERT INTO offering_slots (offering_id, position, label) VALUES ($1, $2, $3)`,
			offeringID, i, label,
		)
		if err != nil {
			return fmt.Errorf("insert slot %q: %w", label, err)
		}
	}
	return nil
}

func (r *OfferingRepository) GetByID(id int64) (*db.Offering, error) {
	var o db.Offering
	query := `
		SELECT id, owner_id, title, description, duration_min, price, created_at, updated_at
		FROM offerings WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(
		&o.ID, &o.OwnerID, &o.Title, &o.Description, &o.DurationMin, &o.Price, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query offering %d: %w", id, err)
	}

	o.Slots, err = r.getSlots(id)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OfferingRepository) getSlots(offeringID int64) ([]string, error) {
	rows, err := r.DB.Query(
		`SELECT label FROM offering_slots WHERE offering_id = $1 ORDER BY position`,
		offeringID,
	)
	if err != nil {
		return nil, fmt.Errorf("query offering slots: %w", err)
	}
	defer rows.Close()

	var slots []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("scan slot label: %w", err)
		}
		slots = append(slots, label)
	}
	return slots, rows.Err()
}

func (r *OfferingRepository) List() ([]db.Offering, error) {
	rows, err := r.DB.Query(`
		SELECT id, owner_id, title, description, duration_min, price, created_at, updated_at
		FROM offerings ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query offerings: %w", err)
	}
	defer rows.Close()

	var offerings []db.Offering
	for rows.Next() {
		var o db.Offering
		err := rows.Scan(&o.ID, &o.OwnerID, &o.Title, &o.Description, &o.DurationMin, &o.Price, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan offering: %w", err)
		}
		offerings = append(offerings, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range offerings {
		offerings[i].Slots, err = r.getSlots(offerings[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return offerings, nil
}

// GetBookedSlots returns the (date, slot) pairs currently held against the
// offering. Only bookings in occupying statuses contribute; rejected and
// cancelled ones free their pair.
func (r *OfferingRepository) GetBookedSlots(offeringID int64) ([]schedule.BookedSlot, error) {
	rows, err := r.DB.Query(`
		SELECT date, slot FROM bookings
		WHERE offering_id = $1 AND status IN ('requested', 'approved', 'completed')`,
		offeringID,
	)
	if err != nil {
		return nil, fmt.Errorf("query booked slots: %w", err)
	}
	defer rows.Close()

	var booked []schedule.BookedSlot
	for rows.Next() {
		var bs schedule.BookedSlot
		if err := rows.Scan(&bs.Date, &bs.Slot); err != nil {
			return nil, fmt.Errorf("scan booked slot: %w", err)
		}
		booked = append(booked, bs)
	}
	return booked, rows.Err()
}

func (r *OfferingRepository) Update(o *db.Offering) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE offerings
		SET title = $2, description = $3, duration_min = $4, price = $5, updated_at = NOW()
		WHERE id = $1`,
		o.ID, o.Title, o.Description, o.DurationMin, o.Price,
	)
	if err != nil {
		return fmt.Errorf("update offering %d: %w", o.ID, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}

	if _, err := tx.Exec(`DELETE FROM offering_slots WHERE offering_id = $1`, o.ID); err != nil {
		return fmt.Errorf("clear offering slots: %w", err)
	}
	if err := insertSlots(tx, o.ID, o.Slots); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *OfferingRepository) Delete(id int64) error {
	result, err := r.DB.Exec(`DELETE FROM offerings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete offering %d: %w", id, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
