package email

import "techsetu-website-api/models"

type EmailSender interface {
	SendEmail(to, subject, body string) error
	SendReceiptEmail(to, name string, order *models.PaymentOrder, sub *models.Subscription) error
	SendLeadNotification(lead *models.ContactLead) error
}
