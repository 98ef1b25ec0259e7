package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"signup-funnel-backend/config"
	"signup-funnel-backend/internal/domain"
)

// SendFunc matches smtp.SendMail; tests swap it out.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService sends operator notifications via SMTP
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
	toEmail   string
	send      SendFunc
	tmpl      *template.Template
}

// SignupEmailData holds the data for the new-signup email
type SignupEmailData struct {
	ID        string
	FullName  string
	Email     string
	Phone     string
	LineType  string
	CreatedAt string
}

// NewEmailService creates the notifier from SMTP configuration
func NewEmailService(cfg *config.Config) *EmailService {
	from := cfg.SMTPFromEmail
	if from == "" {
		from = cfg.SMTPUsername
	}
	return &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: from,
		toEmail:   cfg.SignupNotifyTo,
		send:      smtp.SendMail,
		tmpl:      template.Must(template.New("signup").Parse(signupEmailTemplate)),
	}
}

// WithSender replaces the SMTP transport
func (s *EmailService) WithSender(send SendFunc) *EmailService {
	s.send = send
	return s
}

const signupEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New Signup</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #F34D4E; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .label { font-weight: bold; color: #555; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h1>New Signup</h1></div>
        <div class="content">
            <p><span class="label">Name:</span> {{.FullName}}</p>
            <p><span class="label">Email:</span> {{.Email}}</p>
            <p><span class="label">Phone:</span> {{.Phone}} ({{.LineType}})</p>
            <p><span class="label">Received:</span> {{.CreatedAt}}</p>
            <p><span class="label">Reference:</span> {{.ID}}</p>
        </div>
    </div>
</body>
</html>`

// NotifySignup emails the operators about a new signup
func (s *EmailService) NotifySignup(ctx context.Context, signup *domain.Signup) error {
	if !s.IsConfigured() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data := SignupEmailData{
		ID:        signup.ID,
		FullName:  signup.FullName,
		Email:     signup.Email,
		Phone:     signup.Phone,
		LineType:  signup.LineType,
		CreatedAt: signup.CreatedAt.Format(time.RFC1123),
	}

	var body bytes.Buffer
	if err := s.tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Reply-To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.fromEmail,
		s.toEmail,
		signup.Email,
		fmt.Sprintf("New signup: %s", signup.FullName),
		body.String(),
	))

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := s.send(addr, auth, s.fromEmail, []string{s.toEmail}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != "" && s.toEmail != ""
}
