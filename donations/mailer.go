// Package donations composes and dispatches the donor and admin emails sent
// for completed donations.
package donations

import (
	"context"
	"fmt"
	"time"

	"github.com/kindfund/donations-backend/notifications"
	"github.com/kindfund/donations-backend/notifications/mailtemplates"
	"go.vocdoni.io/dvote/log"
)

// sendTimeout bounds each individual mail delivery attempt.
const sendTimeout = 10 * time.Second

// Receipt is a single completed donation to be notified. It is the unit of
// work pushed into the dispatch queue; Err carries the delivery outcome once
// processed.
type Receipt struct {
	Email      string
	Name       string
	Amount     int64 // minor currency units
	Recurring  bool
	CustomerID string
	CreatedAt  time.Time
	Err        error
}

// Type returns the donation type label used in the notification emails.
func (r *Receipt) Type() string {
	if r.Recurring {
		return "Monthly"
	}
	return "One-Time"
}

// PortalSessionCreator creates a billing portal session for a customer and
// returns its redirect URL. Implemented by the stripe service.
type PortalSessionCreator interface {
	CreatePortalSession(customerID string) (string, error)
}

// Mailer sends the donation receipt to the donor and a notice to the admin
// address for every completed donation.
type Mailer struct {
	mail         notifications.NotificationService
	portal       PortalSessionCreator
	adminAddress string
}

// NewMailer creates a new Mailer with the given mail service, portal session
// creator and admin notification address.
func NewMailer(mail notifications.NotificationService, portal PortalSessionCreator, adminAddress string) *Mailer {
	return &Mailer{
		mail:         mail,
		portal:       portal,
		adminAddress: adminAddress,
	}
}

// receiptData is the template payload for both donation emails.
type receiptData struct {
	Name       string
	Email      string
	Amount     string
	Type       string
	Recurring  bool
	CustomerID string
	PortalURL  string
}

// SendDonationEmails sends the donor receipt and the admin notice for the
// given receipt, sequentially. For recurring donations it first creates a
// fresh billing portal session so the donor email carries a management link.
// Each send completes or visibly fails independently: a failure on one does
// not suppress the attempt of the other, and every failure is logged here.
// The first failure is returned so the caller can record the outcome.
func (m *Mailer) SendDonationEmails(ctx context.Context, r *Receipt) error {
	data := &receiptData{
		Name:       r.Name,
		Email:      r.Email,
		Amount:     fmt.Sprintf("%.2f", float64(r.Amount)/100),
		Type:       r.Type(),
		Recurring:  r.Recurring,
		CustomerID: r.CustomerID,
	}
	if r.Recurring && r.CustomerID != "" {
		portalURL, err := m.portal.CreatePortalSession(r.CustomerID)
		if err != nil {
			// The receipt is still worth sending without the link.
			log.Warnw("could not create portal session for donation receipt",
				"customer", r.CustomerID, "error", err)
		} else {
			data.PortalURL = portalURL
		}
	}

	var sendErr error
	if err := m.send(ctx, r.Email, mailtemplates.DonationReceiptNotification, data); err != nil {
		log.Warnw("failed to send donor receipt", "to", r.Email, "error", err)
		sendErr = err
	}
	if err := m.send(ctx, m.adminAddress, mailtemplates.DonationAdminNotification, data); err != nil {
		log.Warnw("failed to send admin donation notice", "to", m.adminAddress, "error", err)
		if sendErr == nil {
			sendErr = err
		}
	}
	return sendErr
}

// send executes the mail template with the data provided and sends the
// resulting notification to the recipient address.
func (m *Mailer) send(ctx context.Context, to string, template mailtemplates.MailTemplate, data any) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	notification, err := template.ExecTemplate(data)
	if err != nil {
		return err
	}
	notification.ToAddress = to
	return m.mail.SendNotification(ctx, notification)
}
