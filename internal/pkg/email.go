package pkg

import (
	"crypto/tls"

	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/config"

	"gopkg.in/gomail.v2"
)

func SendEmail(cfg config.SMTPConfig, to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	return d.DialAndSend(m)
}
