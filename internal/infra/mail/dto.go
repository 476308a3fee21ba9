package mail

import "gopkg.in/gomail.v2"

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	dial     func(m ...*gomail.Message) error
}
