// Package mailer sends transactional email through SendGrid.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	"caseshop/internal/domain"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/shopspring/decimal"
)

type Mailer interface {
	SendOrderReceived(ctx context.Context, msg OrderReceived) error
}

// OrderReceived is the confirmation sent once an order is paid.
type OrderReceived struct {
	ToName          string
	ToEmail         string
	OrderID         string
	OrderDate       time.Time
	Amount          int64
	ShippingAddress domain.AddressFields
	BaseURL         string
}

type SendGridMailer struct {
	client   *sendgrid.Client
	fromName string
	from     string
}

var _ Mailer = (*SendGridMailer)(nil)

func NewSendGridMailer(apiKey, fromName, fromEmail string) *SendGridMailer {
	return &SendGridMailer{
		client:   sendgrid.NewSendClient(apiKey),
		fromName: fromName,
		from:     fromEmail,
	}
}

func (m *SendGridMailer) SendOrderReceived(ctx context.Context, msg OrderReceived) error {
	html, err := RenderOrderReceived(msg)
	if err != nil {
		return err
	}

	from := mail.NewEmail(m.fromName, m.from)
	to := mail.NewEmail(msg.ToName, msg.ToEmail)
	message := mail.NewSingleEmail(from, "Thanks for your order!", to, plainOrderReceived(msg), html)

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		log.Printf("Error sending order email for %s: %v", msg.OrderID, err)
		return err
	}
	if response.StatusCode >= 400 {
		log.Printf("SendGrid API Error: Status Code %d, Body: %s", response.StatusCode, response.Body)
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	log.Printf("Order email for %s sent. Status Code: %d", msg.OrderID, response.StatusCode)
	return nil
}

// FormatPrice renders cents as a dollar amount.
func FormatPrice(cents int64) string {
	return "$" + decimal.New(cents, -2).StringFixed(2)
}

var orderReceivedTmpl = template.Must(template.New("order_received").Funcs(template.FuncMap{
	"price": FormatPrice,
}).Parse(`<!DOCTYPE html>
<html>
<body style="background-color:#ffffff;font-family:-apple-system,Helvetica,Arial,sans-serif">
  <div style="margin:10px auto;width:600px;border:1px solid #E5E5E5">
    <img src="{{.BaseURL}}/snake-3.png" width="65" height="73" alt="delivery snake" style="margin:auto;display:block">
    <h1 style="text-align:center">Thank you for your order!</h1>
    <p>We're preparing everything for delivery and will notify you once your package has been shipped. Delivery usually takes 2 days.</p>
    <p>If you have any questions regarding your order, please feel free to contact us with your order number and we're here to help.</p>
    <hr>
    <p><strong>Shipping to: {{.ShippingAddress.Name}}</strong></p>
    <p>{{.ShippingAddress.Street}}, {{.ShippingAddress.City}}, {{with .ShippingAddress.State}}{{.}} {{end}}{{.ShippingAddress.PostalCode}}</p>
    <hr>
    <table width="100%">
      <tr><td>Order Number</td><td>Order Date</td><td>Total</td></tr>
      <tr><td>{{.OrderID}}</td><td>{{.OrderDate.Format "Jan 2, 2006"}}</td><td>{{price .Amount}}</td></tr>
    </table>
  </div>
</body>
</html>`))

func RenderOrderReceived(msg OrderReceived) (string, error) {
	var buf bytes.Buffer
	if err := orderReceivedTmpl.Execute(&buf, msg); err != nil {
		return "", fmt.Errorf("render order email: %w", err)
	}
	return buf.String(), nil
}

func plainOrderReceived(msg OrderReceived) string {
	return fmt.Sprintf("Thank you for your order!\n\nOrder %s placed %s, total %s.\nShipping to %s, %s, %s %s.\n",
		msg.OrderID,
		msg.OrderDate.Format("Jan 2, 2006"),
		FormatPrice(msg.Amount),
		msg.ShippingAddress.Name,
		msg.ShippingAddress.Street,
		msg.ShippingAddress.City,
		msg.ShippingAddress.PostalCode,
	)
}
