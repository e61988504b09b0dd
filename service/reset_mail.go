package service

import (
	"fmt"

	"github.com/StrixzIV/adv-compro-finals/config"

	"gopkg.in/gomail.v2"
)

// SendResetMail delivers the password reset link. Callers run this in a
// goroutine, a delivery failure never fails the originating request
func SendResetMail(cfg *config.Config, sendTo, token string) error {
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", cfg.HostURL, token)

	m := gomail.NewMessage()
	m.SetHeader("From", cfg.MailSender)
	m.SetHeader("To", sendTo)
	m.SetHeader("Subject", "Reset your password")
	m.SetBody("text/html", fmt.Sprintf(
		"Click <a href='%s'>here</a> to reset your password.<br><br>This link will expire in 15 minutes.",
		resetLink))

	d := gomail.NewDialer(cfg.MailHost, cfg.MailPort, cfg.MailSender, cfg.MailPassword)

	return d.DialAndSend(m)
}
