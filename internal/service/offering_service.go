package service

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"skillmarket/internal/db"
	"skillmarket/internal/entities"
	httperrors "skillmarket/internal/errors"
	"skillmarket/internal/repository"
	"skillmarket/internal/schedule"
)

// ErrNotFound marks lookups for records that do not exist.
var ErrNotFound = errors.New("not found")

const dateLayout = "2006-01-02"

type OfferingService struct {
	repo   *repository.OfferingRepository
	users  repository.UserRepository
	logger *zap.Logger
}

func NewOfferingService(repo *repository.OfferingRepository, users repository.UserRepository, logger *zap.Logger) *OfferingService {
	return &OfferingService{repo: repo, users: users, logger: logger}
}

func (s *OfferingService) Create(owner schedule.Actor, req entities.OfferingRequest) (*entities.OfferingResponse, error) {
	if owner.Role != schedule.RoleTeacher {
		return nil, schedule.ErrUnauthorized
	}
	if req.Title == "" {
		return nil, httperrors.ErrBadRequest("title is required")
	}
	if req.DurationMin <= 0 {
		return nil, httperrors.ErrBadRequest("duration_min must be positive")
	}

	o := &db.Offering{
		OwnerID:     owner.ID,
		Title:       req.Title,
		Description: req.Description,
		DurationMin: req.DurationMin,
		Price:       req.Price,
		Slots:       req.Slots,
	}
	if err := s.repo.Create(o); err != nil {
		return nil, err
	}

	s.logger.Info("offering created",
		zap.Int64("offering_id", o.ID),
		zap.Int64("owner_id", owner.ID),
		zap.Int("slots", len(o.Slots)),
	)
	return s.toResponse(o)
}

func (s *OfferingService) Get(id int64) (*entities.OfferingResponse, error) {
	o, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrNotFound
	}
	return s.toResponse(o)
}

func (s *OfferingService) List() ([]entities.OfferingResponse, error) {
	offerings, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	responses := make([]entities.OfferingResponse, 0, len(offerings))
	for i := range offerings {
		resp, err := s.toResponse(&offerings[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

func (s *OfferingService) Update(actor schedule.Actor, id int64, req entities.OfferingRequest) (*entities.OfferingResponse, error) {
	o, err := s.mutableOffering(actor, id)
	if err != nil {
		return nil, err
	}

	o.Title = req.Title
	o.Description = req.Description
	o.DurationMin = req.DurationMin
	o.Price = req.Price
	o.Slots = req.Slots

	if err := s.repo.Update(o); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.toResponse(o)
}

func (s *OfferingService) Delete(actor schedule.Actor, id int64) error {
	if _, err := s.mutableOffering(actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.logger.Info("offering deleted", zap.Int64("offering_id", id), zap.Int64("actor_id", actor.ID))
	return nil
}

// mutableOffering loads an offering and checks that the actor may mutate it:
// the owning instructor, or an admin.
func (s *OfferingService) mutableOffering(actor schedule.Actor, id int64) (*db.Offering, error) {
	o, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrNotFound
	}
	if o.OwnerID != actor.ID && actor.Role != schedule.RoleAdmin {
		return nil, schedule.ErrUnauthorized
	}
	return o, nil
}

// Availability resolves the bookable slots of an offering for a calendar day.
func (s *OfferingService) Availability(offeringID int64, dateStr string) (*entities.AvailabilityResponse, error) {
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", dateStr)
	}

	view, err := s.ScheduleView(offeringID)
	if err != nil {
		return nil, err
	}

	resp := &entities.AvailabilityResponse{
		OfferingID: offeringID,
		Date:       dateStr,
		Slots:      schedule.AvailableSlots(*view, date),
	}
	if slot, ok := schedule.DefaultSelection(*view, date); ok {
		resp.DefaultSlot = slot
	}
	return resp, nil
}

// ScheduleView assembles the availability view of an offering: declared
// slots plus the (date, slot) pairs held by occupying bookings.
func (s *OfferingService) ScheduleView(offeringID int64) (*schedule.Offering, error) {
	o, err := s.repo.GetByID(offeringID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrNotFound
	}
	booked, err := s.repo.GetBookedSlots(offeringID)
	if err != nil {
		return nil, err
	}
	return &schedule.Offering{
		ID:      o.ID,
		OwnerID: o.OwnerID,
		Slots:   o.Slots,
		Booked:  booked,
	}, nil
}

func (s *OfferingService) toResponse(o *db.Offering) (*entities.OfferingResponse, error) {
	resp := &entities.OfferingResponse{
		ID:          o.ID,
		OwnerID:     o.OwnerID,
		Title:       o.Title,
		Description: o.Description,
		DurationMin: o.DurationMin,
		Price:       o.Price,
		Slots:       o.Slots,
		BookedSlots: []entities.BookedSlotResponse{},
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}

	owner, err := s.users.GetByID(o.OwnerID)
	if err != nil {
		return nil, err
	}
	if owner != nil {
		resp.OwnerName = owner.Name
	}

	booked, err := s.repo.GetBookedSlots(o.ID)
	if err != nil {
		return nil, err
	}
	for _, bs := range booked {
		resp.BookedSlots = append(resp.BookedSlots, entities.BookedSlotResponse{
			Date: bs.Date.Format(dateLayout),
			Slot: bs.Slot,
		})
	}
	return resp, nil
}
