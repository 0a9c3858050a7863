package service

import (
	"fmt"
	"os"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// NotifyService wraps the SendGrid and Twilio clients. Credentials come from
// the environment; when they are missing the send is skipped with a warning
// so a dev setup works without external accounts.
type NotifyService struct {
	logger *zap.Logger
}

func NewNotifyService(logger *zap.Logger) *NotifyService {
	return &NotifyService{logger: logger}
}

func (n *NotifyService) SendEmail(toEmailAddress, toName, subject, plainTextContent, htmlContent string) error {
	sendgridAPIKey := os.Getenv("SENDGRID_API_KEY")
	if sendgridAPIKey == "" {
		n.logger.Warn("SENDGRID_API_KEY not configured, skipping email", zap.String("to", toEmailAddress))
		return fmt.Errorf("SENDGRID_API_KEY not configured")
	}

	fromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	if fromEmail == "" {
		n.logger.Warn("SENDGRID_FROM_EMAIL not configured, skipping email")
		return fmt.Errorf("SENDGRID_FROM_EMAIL not configured")
	}

	fromName := os.Getenv("SENDGRID_FROM_NAME")
	if fromName == "" {
		fromName = "SkillMarket"
	}

	from := mail.NewEmail(fromName, fromEmail)
	to := mail.NewEmail(toName, toEmailAddress)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)

	client := sendgrid.NewSendClient(sendgridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		n.logger.Error("sendgrid send failed", zap.String("to", toEmailAddress), zap.Error(err))
		return fmt.Errorf("sendgrid send failed: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		n.logger.Info("email sent",
			zap.String("to", toEmailAddress),
			zap.String("subject", subject),
			zap.Int("status", response.StatusCode),
		)
		return nil
	}

	n.logger.Error("sendgrid returned non-success status",
		zap.String("to", toEmailAddress),
		zap.Int("status", response.StatusCode),
		zap.String("body", response.Body),
	)
	return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
}

func (n *NotifyService) SendSMS(toNumber, messageBody string) error {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	fromNumber := os.Getenv("TWILIO_FROM_NUMBER")

	if accountSid == "" || authToken == "" || fromNumber == "" {
		n.logger.Warn("twilio credentials not configured, skipping SMS", zap.String("to", toNumber))
		return fmt.Errorf("twilio credentials not fully configured")
	}

	if !strings.HasPrefix(toNumber, "+") {
		n.logger.Warn("destination number not in E.164 format, SMS may fail", zap.String("to", toNumber))
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   accountSid,
		Password:   authToken,
		AccountSid: accountSid,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(fromNumber)
	params.SetBody(messageBody)

	resp, err := client.Api.CreateMessage(params)
	if err != nil {
		n.logger.Error("twilio send failed", zap.String("to", toNumber), zap.Error(err))
		return fmt.Errorf("twilio send failed: %w", err)
	}

	if resp != nil && resp.Sid != nil {
		n.logger.Info("SMS sent", zap.String("to", toNumber), zap.String("sid", *resp.Sid))
	}
	return nil
}
