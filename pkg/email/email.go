package email

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// Sender delivers notification emails. Callers treat delivery as best-effort:
// failures are logged by the caller, never returned to the end user.
type Sender interface {
	SendProfileApproved(to, name string) error
	SendProfileRejected(to, name, reason string) error
	SendPurchaseApproved(to, name string, credits int) error
	SendPurchaseRejected(to, name string) error
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender builds a Sender from SMTP_HOST / SMTP_PORT / SMTP_USER /
// SMTP_PASS / SMTP_FROM environment variables.
func NewSMTPSender() (Sender, error) {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil, fmt.Errorf("SMTP_HOST is not set")
	}

	port := 587
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
		}
		port = p
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = os.Getenv("SMTP_USER")
	}

	return &smtpSender{
		dialer: gomail.NewDialer(host, port, os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASS")),
		from:   from,
	}, nil
}

func (s *smtpSender) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	return s.dialer.DialAndSend(m)
}

func (s *smtpSender) SendProfileApproved(to, name string) error {
	body := fmt.Sprintf(`<p>Dear %s,</p>
<p>Your biodata has been reviewed and approved. It is now visible in search.</p>`, name)
	return s.send(to, "Your biodata has been approved", body)
}

func (s *smtpSender) SendProfileRejected(to, name, reason string) error {
	body := fmt.Sprintf(`<p>Dear %s,</p>
<p>Your biodata could not be approved for the following reason:</p>
<blockquote>%s</blockquote>
<p>You can edit your biodata and submit it again.</p>`, name, reason)
	return s.send(to, "Your biodata needs changes", body)
}

func (s *smtpSender) SendPurchaseApproved(to, name string, credits int) error {
	body := fmt.Sprintf(`<p>Dear %s,</p>
<p>Your purchase has been verified. %d credits were added to your account.</p>`, name, credits)
	return s.send(to, "Credits added to your account", body)
}

func (s *smtpSender) SendPurchaseRejected(to, name string) error {
	body := fmt.Sprintf(`<p>Dear %s,</p>
<p>We could not verify your payment. Please double-check the transaction ID and phone number, or contact support.</p>`, name)
	return s.send(to, "Purchase could not be verified", body)
}
