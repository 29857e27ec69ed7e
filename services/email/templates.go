package email

import (
	"fmt"
	"html"

	"techsetu-website-api/models"
	"techsetu-website-api/utils"
)

const receiptTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Payment Receipt</title>
</head>
<body style="margin: 0; padding: 0; background-color: #f9fafb; font-family: Arial, sans-serif;">
    <table role="presentation" cellspacing="0" cellpadding="0" border="0" width="100%%" style="background-color: #f9fafb;">
        <tr>
            <td align="center" style="padding: 40px 20px;">
                <table role="presentation" cellspacing="0" cellpadding="0" border="0" width="600" style="background-color: #ffffff; border-radius: 8px;">
                    <tr>
                        <td style="padding: 32px;">
                            <h2 style="color: #111827; margin-top: 0;">Payment received</h2>
                            <p style="color: #374151;">Hi %s,</p>
                            <p style="color: #374151;">Thank you for subscribing to the <strong>%s</strong> plan. Your payment has been received and your subscription is now active.</p>
                            <table cellspacing="0" cellpadding="8" border="0" width="100%%" style="border: 1px solid #e5e7eb; border-radius: 6px; margin: 16px 0;">
                                <tr><td style="color: #6b7280;">Order reference</td><td align="right" style="color: #111827;">%s</td></tr>
                                <tr><td style="color: #6b7280;">Gateway order</td><td align="right" style="color: #111827;">%s</td></tr>
                                <tr><td style="color: #6b7280;">Payment date</td><td align="right" style="color: #111827;">%s</td></tr>
                                <tr><td style="color: #6b7280;">Next billing date</td><td align="right" style="color: #111827;">%s</td></tr>
                                <tr><td style="color: #6b7280;">Amount paid</td><td align="right" style="color: #111827;"><strong>%s</strong></td></tr>
                            </table>
                            <p style="color: #6b7280; font-size: 13px;">If you did not make this payment, contact support@techsetu.in immediately.</p>
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>`

func renderReceipt(name string, order *models.PaymentOrder, sub *models.Subscription) string {
	amount := utils.FormatINR(float64(order.Amount) / 100)
	return fmt.Sprintf(receiptTemplate,
		html.EscapeString(name),
		html.EscapeString(sub.PlanName),
		html.EscapeString(order.OrderID),
		html.EscapeString(order.RazorpayOrderID),
		utils.FormatDate(order.CreatedAt),
		utils.FormatDate(sub.NextBillingAt),
		amount,
	)
}

const leadTemplate = `
<!DOCTYPE html>
<html lang="en">
<body style="margin: 0; padding: 24px; font-family: Arial, sans-serif; color: #111827;">
    <h2 style="margin-top: 0;">New website enquiry</h2>
    <table cellspacing="0" cellpadding="6" border="0">
        <tr><td style="color: #6b7280;">Name</td><td>%s</td></tr>
        <tr><td style="color: #6b7280;">Email</td><td>%s</td></tr>
        <tr><td style="color: #6b7280;">Phone</td><td>%s</td></tr>
        <tr><td style="color: #6b7280;">Company</td><td>%s</td></tr>
        <tr><td style="color: #6b7280;">Service</td><td>%s</td></tr>
    </table>
    <p style="white-space: pre-wrap; border-left: 3px solid #e5e7eb; padding-left: 12px;">%s</p>
</body>
</html>`

func renderLeadNotification(lead *models.ContactLead) string {
	return fmt.Sprintf(leadTemplate,
		html.EscapeString(lead.Name),
		html.EscapeString(lead.Email),
		html.EscapeString(lead.Phone),
		html.EscapeString(lead.Company),
		html.EscapeString(lead.Service),
		html.EscapeString(lead.Message),
	)
}
