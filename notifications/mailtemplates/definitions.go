// Package mailtemplates provides the predefined email templates sent for
// completed donations, along with utilities for rendering email content.
package mailtemplates

import "github.com/kindfund/donations-backend/notifications"

// DonationReceiptNotification is the notification sent to the donor when a
// checkout session completes.
var DonationReceiptNotification = MailTemplate{
	File: "donation_receipt",
	Placeholder: notifications.Notification{
		Subject: "Thank you for your donation!",
		PlainBody: `Thank you for your {{if .Recurring}}monthly {{end}}donation of ${{.Amount}}.
{{if .Recurring}}
You can manage your recurring donation at any time: {{.PortalURL}}
{{end}}
Your support makes our work possible.`,
	},
}

// DonationAdminNotification is the notification sent to the configured admin
// address for every completed donation.
var DonationAdminNotification = MailTemplate{
	File: "donation_admin_notice",
	Placeholder: notifications.Notification{
		Subject: "New donation received",
		PlainBody: `New {{.Type}} donation received:

Donor: {{.Email}}
Amount: ${{.Amount}}
{{if .CustomerID}}Customer: {{.CustomerID}}{{end}}`,
	},
}
