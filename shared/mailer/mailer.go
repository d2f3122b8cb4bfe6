package mailer

import (
	"fmt"
	"html"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// Mailer represents an email sender.
type Mailer struct {
	config *mailerConfig
	dialer *gomail.Dialer
}

// Email represents an email message.
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// NewMailer creates a new Mailer from the SMTP_* environment variables.
// It returns nil when SMTP_ENABLED is false.
func NewMailer(logger *zerolog.Logger) *Mailer {
	cfg := newMailerConfig(logger)
	if !cfg.Enabled {
		logger.Info().Msg("SMTP delivery disabled")
		return nil
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate Mailer configuration")
	}

	dialer := gomail.NewDialer(
		cfg.Host,
		cfg.Port,
		cfg.Username,
		cfg.Password,
	)

	return &Mailer{
		config: cfg,
		dialer: dialer,
	}
}

// Send sends a single email.
func (m *Mailer) Send(email Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	msg := gomail.NewMessage()
	m.setEmailMessage(msg, email)

	return m.dialer.DialAndSend(msg)
}

// SendWelcome greets a newly registered account.
func (m *Mailer) SendWelcome(name, address string) error {
	return m.Send(welcomeEmail(name, address))
}

func welcomeEmail(name, address string) Email {
	return Email{
		To:      []string{address},
		Subject: "Welcome to DevConnector",
		Body:    fmt.Sprintf("Hi %s,\n\nYour account is ready. Create your developer profile to get started.\n", name),
		HTMLBody: fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your account is ready. Create your developer profile to get started.</p>
		<p>DevConnector Team</p>
	`, html.EscapeString(name)),
	}
}

// SendPasswordReset delivers a single-use reset link valid for expiresIn.
func (m *Mailer) SendPasswordReset(address, resetLink string, expiresIn time.Duration) error {
	return m.Send(passwordResetEmail(address, resetLink, expiresIn))
}

func passwordResetEmail(address, resetLink string, expiresIn time.Duration) Email {
	link := html.EscapeString(resetLink)

	return Email{
		To:      []string{address},
		Subject: "Password Reset Request",
		Body: fmt.Sprintf(
			"We received a request to reset the password for your account.\n\n%s\n\nThis link expires in %s.\n",
			resetLink, expiresIn,
		),
		HTMLBody: fmt.Sprintf(`
		<p>Hi,</p>
		<p>We received a request to reset the password for your account.</p>
		<p>If you made this request, please click the link below to create a new password:</p>

		<p><a href="%s">%s</a></p>

		<p>This link will expire in %s for your security.</p>
		<p>If you did not request a password reset, you can safely ignore this email.</p>

		<p>DevConnector Team</p>
	`, link, link, expiresIn),
	}
}

func (m *Mailer) setEmailMessage(msg *gomail.Message, email Email) {
	msg.SetHeader("From", m.config.From)
	msg.SetHeader("To", email.To...)
	msg.SetHeader("Subject", email.Subject)

	if email.HTMLBody != "" {
		msg.SetBody("text/html", email.HTMLBody)
		if email.Body != "" {
			msg.AddAlternative("text/plain", email.Body)
		}
	} else {
		msg.SetBody("text/plain", email.Body)
	}
}

// mailerConfig holds SMTP configuration for sending emails.
type mailerConfig struct {
	Enabled  bool   `env:"SMTP_ENABLED" envDefault:"false"`
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
}

// newMailerConfig creates a MailerConfig instance from environment variables.
func newMailerConfig(logger *zerolog.Logger) *mailerConfig {
	cfg, err := env.ParseAs[mailerConfig]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	return &cfg
}

// validate checks if the Mailer configuration is valid.
func (c *mailerConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("missing SMTP_HOST environment variable")
	}
	if c.Port == 0 {
		return fmt.Errorf("missing SMTP_PORT environment variable")
	}
	if c.Username == "" {
		return fmt.Errorf("missing SMTP_USERNAME environment variable")
	}
	if c.Password == "" {
		return fmt.Errorf("missing SMTP_PASSWORD environment variable")
	}
	if c.From == "" {
		return fmt.Errorf("missing SMTP_FROM environment variable")
	}

	return nil
}
