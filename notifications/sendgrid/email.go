// Package sendgrid provides a SendGrid-backed implementation of the
// NotificationService interface.
package sendgrid

import (
	"context"
	"fmt"

	"github.com/kindfund/donations-backend/notifications"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type SendGridConfig struct {
	FromName    string
	FromAddress string
	APIKey      string
}

type SendGridEmail struct {
	config *SendGridConfig
	client *sendgrid.Client
}

func (sg *SendGridEmail) New(rawConfig any) error {
	// parse configuration
	config, ok := rawConfig.(*SendGridConfig)
	if !ok {
		return fmt.Errorf("invalid SendGrid configuration")
	}
	// set configuration in struct
	sg.config = config
	// init SendGrid client
	sg.client = sendgrid.NewSendClient(sg.config.APIKey)
	return nil
}

func (sg *SendGridEmail) SendNotification(ctx context.Context, notification *notifications.Notification) error {
	// create from email
	from := mail.NewEmail(sg.config.FromName, sg.config.FromAddress)
	// create email with notification data
	to := mail.NewEmail(notification.ToName, notification.ToAddress)
	message := mail.NewSingleEmail(from, notification.Subject, to, notification.PlainBody, notification.Body)
	// send the email
	_, err := sg.client.SendWithContext(ctx, message)
	return err
}
