// Package notifications defines the notification types and the service
// interface implemented by the available mail transports.
package notifications

import "context"

// Notification is a message to be delivered to a single recipient.
type Notification struct {
	ToName    string
	ToAddress string
	Subject   string
	Body      string
	PlainBody string
}

// NotificationService is implemented by every mail transport (SMTP, SendGrid).
type NotificationService interface {
	New(conf any) error
	SendNotification(context.Context, *Notification) error
}
