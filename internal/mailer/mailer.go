package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends listing lifecycle notifications over SMTP.
type Mailer struct {
	host     string
	port     int
	from     string
	password string
}

func NewMailer(host string, port int, from, password string) *Mailer {
	return &Mailer{host: host, port: port, from: from, password: password}
}

// SendListingActivatedEmail notifies the owner that their listing went live.
func (m *Mailer) SendListingActivatedEmail(toEmail, listingTitle string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Your listing is live")
	msg.SetBody("text/plain", fmt.Sprintf("Your listing '%s' has been published and is now visible to buyers.", listingTitle))

	d := gomail.NewDialer(m.host, m.port, m.from, m.password)
	return d.DialAndSend(msg)
}
