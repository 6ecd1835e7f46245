package notify

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	gomail "gopkg.in/gomail.v2"

	logs "github.com/wwpdb/onedep-io/logs"
	"github.com/wwpdb/onedep-io/site_model"
)

// Sender delivers a composed message. gomail's Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends notification mail through the site relay.
type Mailer struct {
	Site   *site_model.Site
	sender Sender
}

func NewMailer(site *site_model.Site) *Mailer {
	return &Mailer{Site: site}
}

// SetSender overrides the transport, used in tests.
func (m *Mailer) SetSender(sender Sender) {
	m.sender = sender
}

// relay splits the configured mail server into host and port, port 25
// when unspecified.
func (m *Mailer) relay(ctx context.Context) (string, int, error) {
	server := m.Site.Notify.MailServer
	if server == "" {
		err := errors.New("mail server not configured")
		logs.WithContext(ctx).Error(err.Error())
		return "", 0, err
	}
	host := server
	port := 25
	if idx := strings.LastIndex(server, ":"); idx > 0 {
		p, err := strconv.Atoi(server[idx+1:])
		if err == nil {
			host = server[:idx]
			port = p
		}
	}
	return host, port, nil
}

// SendEmail sends one plain text message.
func (m *Mailer) SendEmail(ctx context.Context, body string, subject string, to []string, from string) error {
	logs.WithContext(ctx).Debug("SendEmail - Start")
	if len(to) == 0 {
		err := errors.New("no recipients given")
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	if from == "" {
		from = m.Site.Notify.NoReplyFrom
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	sender := m.sender
	if sender == nil {
		host, port, err := m.relay(ctx)
		if err != nil {
			return err
		}
		sender = gomail.NewDialer(host, port, "", "")
	}
	err := sender.DialAndSend(msg)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
	}
	return err
}

// SendSystemError reports a failure to the configured system
// notification address.
func (m *Mailer) SendSystemError(ctx context.Context, subject string, body string) error {
	logs.WithContext(ctx).Debug("SendSystemError - Start")
	address := m.Site.Notify.SystemNotify
	if address == "" {
		err := errors.New("system notification address not configured")
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	return m.SendEmail(ctx, body, fmt.Sprint("[", m.Site.SiteId, "] ", subject), []string{address}, "")
}
