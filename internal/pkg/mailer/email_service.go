package mailer

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

// IEmailService is the outbound mail surface. SendMessage backs the
// send_email capability; SendTaskFailureAlert is used by the executor when a
// task dies and the user has no open client to notify.
type IEmailService interface {
	SendMessage(toEmail, subject, body string) error
	SendTaskFailureAlert(toEmail, instruction, reason string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) SendMessage(toEmail, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send message to %s: %w", toEmail, err)
	}
	return nil
}

func (s *emailService) SendTaskFailureAlert(toEmail, instruction, reason string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your assistant task could not be completed")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Task could not be completed</h2>
			<p>Your instruction:</p>
			<blockquote style="border-left: 3px solid #ccc; padding-left: 10px;">%s</blockquote>
			<p>Reason: %s</p>
			<p>You can retry from your dashboard or rephrase the instruction.</p>
		</div>
	`, html.EscapeString(instruction), html.EscapeString(reason))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send failure alert to %s: %w", toEmail, err)
	}
	return nil
}
