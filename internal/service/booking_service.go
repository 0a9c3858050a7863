package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"skillmarket/internal/db"
	"skillmarket/internal/entities"
	"skillmarket/internal/repository"
	"skillmarket/internal/schedule"
)

// ErrPastDate rejects booking requests for dates before today. The lifecycle
// core leaves temporal ordering to this layer.
var ErrPastDate = errors.New("booking date must be today or later")

const (
	paymentStatusNone      = "none"
	paymentStatusPending   = "pending"
	paymentStatusSucceeded = "succeeded"
	paymentStatusRefunded  = "refunded"
)

type BookingService struct {
	bookings  *repository.BookingRepository
	offerings *OfferingService
	users     repository.UserRepository
	stripe    *StripeService
	sender    *SenderService
	logger    *zap.Logger
}

func NewBookingService(
	bookings *repository.BookingRepository,
	offerings *OfferingService,
	users repository.UserRepository,
	stripe *StripeService,
	sender *SenderService,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:  bookings,
		offerings: offerings,
		users:     users,
		stripe:    stripe,
		sender:    sender,
		logger:    logger,
	}
}

// Create validates a booking request against current availability and
// persists it in the requested state. For priced offerings a Stripe Checkout
// session is opened and its URL returned with the booking.
func (s *BookingService) Create(requester schedule.Actor, req entities.BookingRequest) (*entities.BookingResponse, error) {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		// Malformed date fails closed as an unavailable slot.
		return nil, schedule.ErrSlotUnavailable
	}
	if date.Before(schedule.Day(time.Now())) {
		return nil, ErrPastDate
	}

	view, err := s.offerings.ScheduleView(req.OfferingID)
	if err != nil {
		return nil, err
	}

	draft, err := schedule.CreateBooking(*view, req.Slot, date, requester)
	if err != nil {
		return nil, err
	}

	offering, err := s.offerings.repo.GetByID(req.OfferingID)
	if err != nil {
		return nil, err
	}
	student, err := s.users.GetByID(requester.ID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, ErrNotFound
	}

	booking := &db.Booking{
		Code:          uuid.NewString(),
		OfferingID:    draft.OfferingID,
		RequesterID:   draft.RequesterID,
		OwnerID:       draft.OwnerID,
		Date:          draft.Date,
		Slot:          draft.Slot,
		Status:        draft.Status.String(),
		PaymentStatus: paymentStatusNone,
	}

	checkoutURL := ""
	if offering.Price > 0 {
		url, sessionID, err := s.stripe.CreateCheckoutSession(
			int64(offering.Price), "usd", offering.Title, student.Email,
		)
		if err != nil {
			return nil, fmt.Errorf("create checkout session: %w", err)
		}
		checkoutURL = url
		booking.StripeSessionID = sessionID
		booking.PaymentStatus = paymentStatusPending
	}

	if err := s.bookings.Create(booking); err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("code", booking.Code),
		zap.Int64("offering_id", booking.OfferingID),
		zap.Int64("requester_id", booking.RequesterID),
		zap.String("date", req.Date),
		zap.String("slot", booking.Slot),
	)

	resp := s.toResponse(booking, offering.Title, student.Name, "")
	resp.CheckoutURL = checkoutURL

	s.notifyParties(resp, booking)
	return resp, nil
}

// Transition applies a lifecycle transition requested by actor. External
// status spellings are normalized before the state machine sees them.
func (s *BookingService) Transition(actor schedule.Actor, code, statusStr string) (*entities.BookingResponse, error) {
	target, err := schedule.ParseStatus(statusStr)
	if err != nil {
		return nil, schedule.ErrInvalidTransition
	}

	booking, err := s.bookings.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrNotFound
	}

	current, err := schedule.ParseStatus(booking.Status)
	if err != nil {
		return nil, fmt.Errorf("stored status %q is not canonical: %w", booking.Status, err)
	}

	updated, err := schedule.Transition(schedule.Booking{
		ID:          booking.ID,
		OfferingID:  booking.OfferingID,
		RequesterID: booking.RequesterID,
		OwnerID:     booking.OwnerID,
		Date:        booking.Date,
		Slot:        booking.Slot,
		Status:      current,
	}, target, actor)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.UpdateStatus(booking.ID, updated.Status.String()); err != nil {
		return nil, err
	}
	booking.Status = updated.Status.String()

	if updated.Status == schedule.StatusCancelled && booking.PaymentStatus == paymentStatusSucceeded {
		if err := s.stripe.RefundPaymentBySessionID(booking.StripeSessionID); err != nil {
			s.logger.Error("refund failed",
				zap.String("code", booking.Code),
				zap.String("session_id", booking.StripeSessionID),
				zap.Error(err),
			)
		} else if err := s.bookings.UpdatePaymentStatus(booking.ID, paymentStatusRefunded); err != nil {
			s.logger.Error("could not mark booking refunded", zap.String("code", booking.Code), zap.Error(err))
		} else {
			booking.PaymentStatus = paymentStatusRefunded
		}
	}

	s.logger.Info("booking transitioned",
		zap.String("code", booking.Code),
		zap.String("from", current.String()),
		zap.String("to", updated.Status.String()),
		zap.Int64("actor_id", actor.ID),
	)

	resp := s.responseWithNames(booking)
	s.notifyParties(resp, booking)
	return resp, nil
}

// ListForUser returns the caller's bookings, as requester or offering owner.
func (s *BookingService) ListForUser(userID int64, limit, offset int) (*entities.BookingsList, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.bookings.ListByUser(userID, limit, offset)
}

// AdminList returns all bookings, optionally filtered by date and status.
// Filter statuses accept the boundary aliases too.
func (s *BookingService) AdminList(date, status string) ([]entities.BookingResponse, error) {
	if status != "" {
		canonical, err := schedule.ParseStatus(status)
		if err != nil {
			return nil, schedule.ErrInvalidTransition
		}
		status = canonical.String()
	}
	bookings, err := s.bookings.AdminList(date, status)
	if err != nil {
		return nil, err
	}
	responses := make([]entities.BookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, *s.toResponse(&bookings[i], "", "", ""))
	}
	return responses, nil
}

// GetByCode returns one booking; only its participants and admins may see it.
func (s *BookingService) GetByCode(actor schedule.Actor, code string) (*entities.BookingResponse, error) {
	booking, err := s.bookings.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrNotFound
	}
	if booking.RequesterID != actor.ID && booking.OwnerID != actor.ID && actor.Role != schedule.RoleAdmin {
		return nil, schedule.ErrUnauthorized
	}
	return s.responseWithNames(booking), nil
}

// MarkPaymentSucceededBySession records a completed checkout, called from the
// Stripe webhook.
func (s *BookingService) MarkPaymentSucceededBySession(sessionID string) error {
	booking, err := s.bookings.GetByStripeSessionID(sessionID)
	if err != nil {
		return err
	}
	if booking == nil {
		return ErrNotFound
	}
	if err := s.bookings.UpdatePaymentStatus(booking.ID, paymentStatusSucceeded); err != nil {
		return err
	}
	booking.PaymentStatus = paymentStatusSucceeded

	resp := s.responseWithNames(booking)
	s.notifyParties(resp, booking)
	return nil
}

// SessionIDByPaymentIntentID resolves the checkout session for a payment
// intent via Stripe.
func (s *BookingService) SessionIDByPaymentIntentID(paymentIntentID string) (string, error) {
	return s.stripe.SessionIDByPaymentIntentID(paymentIntentID)
}

// MarkRefundedBySession records a refund observed via webhook, e.g. one
// issued from the Stripe dashboard.
func (s *BookingService) MarkRefundedBySession(sessionID string) error {
	booking, err := s.bookings.GetByStripeSessionID(sessionID)
	if err != nil {
		return err
	}
	if booking == nil {
		return ErrNotFound
	}
	return s.bookings.UpdatePaymentStatus(booking.ID, paymentStatusRefunded)
}

func (s *BookingService) toResponse(b *db.Booking, offeringTitle, requesterName, ownerName string) *entities.BookingResponse {
	return &entities.BookingResponse{
		Code:          b.Code,
		OfferingID:    b.OfferingID,
		OfferingTitle: offeringTitle,
		RequesterID:   b.RequesterID,
		RequesterName: requesterName,
		OwnerID:       b.OwnerID,
		OwnerName:     ownerName,
		Date:          b.Date.Format(dateLayout),
		Slot:          b.Slot,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func (s *BookingService) responseWithNames(b *db.Booking) *entities.BookingResponse {
	title, requesterName, ownerName := "", "", ""
	if o, err := s.offerings.repo.GetByID(b.OfferingID); err == nil && o != nil {
		title = o.Title
	}
	if u, err := s.users.GetByID(b.RequesterID); err == nil && u != nil {
		requesterName = u.Name
	}
	if u, err := s.users.GetByID(b.OwnerID); err == nil && u != nil {
		ownerName = u.Name
	}
	return s.toResponse(b, title, requesterName, ownerName)
}

// notifyParties emails both sides of the booking and texts the requester.
func (s *BookingService) notifyParties(resp *entities.BookingResponse, b *db.Booking) {
	if requester, err := s.users.GetByID(b.RequesterID); err == nil && requester != nil {
		s.sender.SendBookingEmail(*resp, requester.Name, requester.Email)
		s.sender.SendBookingSMS(*resp, requester.Phone)
	}
	if owner, err := s.users.GetByID(b.OwnerID); err == nil && owner != nil {
		s.sender.SendBookingEmail(*resp, owner.Name, owner.Email)
	}
}
