package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/config"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/constants"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/utils"
)

const passwordResetSubject = "Password Reset Request"

// Mailer delivers outbound email.
type Mailer interface {
	SendPasswordResetEmail(ctx context.Context, toEmail, toName, resetURL string) error
}

// NewMailer returns the mailer selected in the email settings.
func NewMailer(cfg config.EmailSettings) (Mailer, error) {
	switch strings.ToLower(cfg.Provider) {
	case constants.EmailProviderSendGrid:
		return NewEmailService(cfg)
	case constants.EmailProviderLog, "":
		return &LogMailer{}, nil
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", cfg.Provider)
	}
}

type sendFunc func(ctx context.Context, msg *mail.SGMailV3) (int, string, error)

// EmailService sends email through SendGrid.
type EmailService struct {
	fromAddress string
	fromName    string
	timeout     time.Duration
	send        sendFunc
}

// NewEmailService creates a new EmailService. The SendGrid API key is required.
func NewEmailService(cfg config.EmailSettings) (*EmailService, error) {
	if cfg.SendGridAPIKey == "" {
		return nil, fmt.Errorf("sendgrid api key is not set")
	}

	client := sendgrid.NewSendClient(cfg.SendGridAPIKey)
	send := func(ctx context.Context, msg *mail.SGMailV3) (int, string, error) {
		response, err := client.SendWithContext(ctx, msg)
		if err != nil {
			return 0, "", err
		}
		return response.StatusCode, response.Body, nil
	}

	return newEmailService(cfg, send), nil
}

func newEmailService(cfg config.EmailSettings, send sendFunc) *EmailService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultEmailTimeout
	}
	return &EmailService{
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		timeout:     timeout,
		send:        send,
	}
}

// SendPasswordResetEmail sends the reset link to the specified user.
func (s *EmailService) SendPasswordResetEmail(ctx context.Context, toEmail, toName, resetURL string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	from := mail.NewEmail(s.fromName, s.fromAddress)
	to := mail.NewEmail(toName, toEmail)
	plainTextContent := fmt.Sprintf("Please use the following link to reset your password: %s\n\nThe link expires in one hour.", resetURL)
	htmlContent := fmt.Sprintf("<strong>Please use the following link to reset your password:</strong> <a href=\"%s\">Reset Password</a><p>The link expires in one hour.</p>", resetURL)
	message := mail.NewSingleEmail(from, passwordResetSubject, to, plainTextContent, htmlContent)

	status, body, err := s.send(ctx, message)
	if err != nil {
		log.Error().Err(err).Str("email", utils.MaskEmail(toEmail)).Msg("Failed to send password reset email")
		return fmt.Errorf("failed to send email: %w", err)
	}
	if status >= http.StatusBadRequest {
		log.Error().
			Int("status_code", status).
			Str("body", utils.TruncateString(body, 200)).
			Msg("SendGrid rejected password reset email")
		return fmt.Errorf("sendgrid returned status %d", status)
	}

	log.Info().Int("status_code", status).Str("email", utils.MaskEmail(toEmail)).Msg("Password reset email sent")
	return nil
}

// LogMailer writes emails to the log instead of sending them. It is meant for development.
type LogMailer struct{}

// SendPasswordResetEmail logs the reset link.
func (LogMailer) SendPasswordResetEmail(_ context.Context, toEmail, _, resetURL string) error {
	log.Info().
		Str("email", utils.MaskEmail(toEmail)).
		Str("reset_url", resetURL).
		Msg("Password reset email (not sent, log provider)")
	return nil
}
