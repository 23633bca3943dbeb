// Package channels chứa các kênh gửi thông báo (email qua SMTP).
package channels

import (
	"fmt"

	"order_desk/config"

	"gopkg.in/gomail.v2"
)

// SendEmail gửi một email HTML qua SMTP cấu hình trong Configuration.
func SendEmail(cfg *config.Configuration, recipient string, subject string, htmlContent string) error {
	if cfg.SMTPHost == "" {
		return fmt.Errorf("SMTP chưa được cấu hình")
	}

	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUsername
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlContent)

	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	return dialer.DialAndSend(msg)
}
