package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"

	"skillmarket/internal/service"
)

type StripeWebhookHandler struct {
	StripeSecret   string
	bookingService *service.BookingService
	logger         *zap.Logger
}

func NewStripeWebhookHandler(stripeSecret string, bookingService *service.BookingService, logger *zap.Logger) *StripeWebhookHandler {
	return &StripeWebhookHandler{
		StripeSecret:   stripeSecret,
		bookingService: bookingService,
		logger:         logger,
	}
}

func (h *StripeWebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	const maxBodyBytes = int64(65536)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Error("error reading webhook body", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sigHeader, h.StripeSecret)
	if err != nil {
		h.logger.Warn("webhook signature verification failed", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			h.logger.Error("error parsing checkout.session", zap.Error(err))
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if sess.ID == "" {
			h.logger.Warn("no session ID in checkout.session.completed")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := h.bookingService.MarkPaymentSucceededBySession(sess.ID); err != nil {
			h.logger.Error("could not mark payment succeeded", zap.String("session_id", sess.ID), zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

	case "charge.refunded":
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			h.logger.Error("error parsing charge", zap.Error(err))
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		sessionID := ""
		if charge.PaymentIntent != nil {
			sessionID = h.sessionIDForPaymentIntent(charge.PaymentIntent.ID)
		}
		if sessionID == "" {
			h.logger.Warn("no session found for refunded charge", zap.String("charge_id", charge.ID))
			break
		}
		if err := h.bookingService.MarkRefundedBySession(sessionID); err != nil {
			h.logger.Error("could not mark booking refunded", zap.String("session_id", sessionID), zap.Error(err))
		}

	default:
		h.logger.Debug("unhandled stripe event", zap.String("type", string(event.Type)))
	}

	w.WriteHeader(http.StatusOK)
}

func (h *StripeWebhookHandler) sessionIDForPaymentIntent(paymentIntentID string) string {
	if paymentIntentID == "" {
		return ""
	}
	id, err := h.bookingService.SessionIDByPaymentIntentID(paymentIntentID)
	if err != nil {
		h.logger.Warn("no session_id for payment intent", zap.String("payment_intent", paymentIntentID), zap.Error(err))
		return ""
	}
	return id
}
