package smtp

import (
	"fmt"
	smtpPkg "net/smtp"
	"os"
)

type ItfSmtp interface {
	SendOTP(userEmail string, companyName string, otp string) error
}

type smtp struct {
	auth smtpPkg.Auth
	mail string
	host string
	port string
}

func New() ItfSmtp {
	mail := os.Getenv("SMTP_MAIL")
	password := os.Getenv("SMTP_PASSWORD")
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	auth := smtpPkg.PlainAuth("", mail, password, host)

	return &smtp{auth: auth, mail: mail, host: host, port: port}
}

func (s *smtp) SendOTP(userEmail string, companyName string, otp string) error {
	to := []string{userEmail}

	message := []byte(fmt.Sprintf(
		"To: %s\r\nSubject: OTP Verification - Mining Industry Chatbot\r\n\r\n"+
			"Hi %s,\r\n\r\nYour OTP for email verification is: %s\r\n"+
			"This OTP will expire in 1 minute.\r\n\r\nBest Regards,\r\nMining Chatbot Team",
		userEmail, companyName, otp))

	if err := smtpPkg.SendMail(fmt.Sprintf("%s:%s", s.host, s.port), s.auth, s.mail, to, message); err != nil {
		return err
	}

	return nil
}
