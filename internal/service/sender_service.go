package service

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"skillmarket/internal/entities"
)

// SenderService composes and dispatches booking notifications. Sends happen
// asynchronously; a failed notification is logged, never surfaced to the
// caller that triggered it.
type SenderService struct {
	notify *NotifyService
	logger *zap.Logger
}

func NewSenderService(notify *NotifyService, logger *zap.Logger) *SenderService {
	return &SenderService{notify: notify, logger: logger}
}

// SendBookingEmail mails the booking's current status to the given recipient.
func (s *SenderService) SendBookingEmail(b entities.BookingResponse, toName, toEmail string) {
	emailData := entities.BookingEmailData{
		UserName:      toName,
		BookingCode:   b.Code,
		OfferingTitle: b.OfferingTitle,
		DateFormatted: b.Date,
		Slot:          b.Slot,
		Status:        b.Status,
		CurrentYear:   time.Now().UTC().Year(),
	}

	emailSubject := fmt.Sprintf("Your SkillMarket booking is %s - Code: %s", b.Status, b.Code)
	plainTextBody := fmt.Sprintf(
		"Hello %s,\n\nYour booking on SkillMarket is %s.\n\n"+
			"Booking Details:\n"+
			"Booking Code: %s\n"+
			"Offering: %s\n"+
			"Date: %s\n"+
			"Slot: %s\n\n"+
			"Thank you for using SkillMarket.\n\n"+
			"SkillMarket. All rights reserved.",
		emailData.UserName, emailData.Status, emailData.BookingCode, emailData.OfferingTitle,
		emailData.DateFormatted, emailData.Slot,
	)

	htmlBody := ""
	tmplPath := filepath.Join("internal", "templates", "booking_email.html")
	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		s.logger.Warn("could not parse booking email template", zap.String("path", tmplPath), zap.Error(err))
	} else {
		var htmlBodyBuffer bytes.Buffer
		if err := tmpl.Execute(&htmlBodyBuffer, emailData); err != nil {
			s.logger.Warn("could not execute booking email template", zap.String("code", b.Code), zap.Error(err))
		} else {
			htmlBody = htmlBodyBuffer.String()
		}
	}

	go func() {
		if err := s.notify.SendEmail(toEmail, toName, emailSubject, plainTextBody, htmlBody); err != nil {
			s.logger.Warn("booking email failed", zap.String("code", b.Code), zap.Error(err))
		}
	}()
}

// SendBookingSMS texts a short status line to the given recipient.
func (s *SenderService) SendBookingSMS(b entities.BookingResponse, toPhone string) {
	if toPhone == "" {
		return
	}
	smsMessage := fmt.Sprintf("SkillMarket: booking %s is %s.\nSession: %s at %s.\nMore details in your email.",
		b.Code, b.Status, b.Date, b.Slot,
	)

	go func() {
		if err := s.notify.SendSMS(toPhone, smsMessage); err != nil {
			s.logger.Warn("booking SMS failed", zap.String("code", b.Code), zap.Error(err))
		}
	}()
}
