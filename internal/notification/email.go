package notification

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"

	"github.com/dwes123/pitch-arsenal-go/internal/config"
)

type sendFunc func(m *email.Email, addr string, auth smtp.Auth) error

func smtpSend(m *email.Email, addr string, auth smtp.Auth) error {
	return m.Send(addr, auth)
}

func emailEnabled(cfg config.NotifyConfig) bool {
	return cfg.SMTPHost != "" && cfg.SMTPPort != "" && cfg.SMTPFrom != "" && cfg.EmailTo != ""
}

// sendEmail sends a plain text message to every address in cfg.EmailTo
// (comma separated).
func sendEmail(send sendFunc, cfg config.NotifyConfig, subject, body string) error {
	if !emailEnabled(cfg) {
		return nil
	}

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Pitch Arsenal <%s>", cfg.SMTPFrom)
	for _, to := range strings.Split(cfg.EmailTo, ",") {
		if to = strings.TrimSpace(to); to != "" {
			mail.To = append(mail.To, to)
		}
	}
	mail.Subject = subject
	mail.Text = []byte(body)

	var auth smtp.Auth
	if cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return send(mail, cfg.SMTPHost+":"+cfg.SMTPPort, auth)
}
