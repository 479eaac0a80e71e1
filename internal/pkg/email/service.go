// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/order"
	"github.com/your-org/bookstore-backend/internal/domain/user"
)

// Service sends transactional mail over SMTP
type Service struct {
	config *config.Config
	log    *logrus.Logger
}

// NewService creates a new email service
func NewService(cfg *config.Config, log *logrus.Logger) *Service {
	return &Service{config: cfg, log: log}
}

// Enabled reports whether outbound mail is configured
func (s *Service) Enabled() bool {
	return s.config.Email.Enabled && s.config.Email.SMTPHost != ""
}

const orderConfirmationTemplate = `
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Thank you for your order, {{.Name}}!</h2>
  <p>Your order <strong>{{.OrderNumber}}</strong> has been received.</p>
  <table cellpadding="6" style="border-collapse: collapse;">
    <tr><th align="left">Book</th><th align="right">Qty</th><th align="right">Total</th></tr>
    {{range .Items}}
    <tr>
      <td>{{.Title}}</td>
      <td align="right">{{.Quantity}}</td>
      <td align="right">{{.Total}}</td>
    </tr>
    {{end}}
  </table>
  <p>Subtotal: {{.Subtotal}}<br>
     Shipping: {{.Shipping}}<br>
     <strong>Total: {{.Total}}</strong></p>
  <p>{{.StoreName}}</p>
</body>
</html>
`

type confirmationItem struct {
	Title    string
	Quantity int
	Total    string
}

type confirmationData struct {
	Name        string
	OrderNumber string
	Items       []confirmationItem
	Subtotal    string
	Shipping    string
	Total       string
	StoreName   string
}

// SendOrderConfirmation mails the order summary to the buyer
func (s *Service) SendOrderConfirmation(ctx context.Context, u *user.User, o *order.Order) error {
	if !s.Enabled() {
		return nil
	}

	data := confirmationData{
		Name:        u.Name,
		OrderNumber: o.OrderNumber,
		Subtotal:    formatCents(o.Subtotal),
		Shipping:    formatCents(o.Shipping),
		Total:       formatCents(o.Total),
		StoreName:   s.config.App.StoreName,
	}
	for _, item := range o.Items {
		title := "Unknown title"
		if item.Book != nil {
			title = item.Book.Title
		}
		data.Items = append(data.Items, confirmationItem{
			Title:    title,
			Quantity: item.Quantity,
			Total:    formatCents(item.TotalPrice),
		})
	}

	tmpl, err := template.New("order_confirmation").Parse(orderConfirmationTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse confirmation template: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render confirmation template: %w", err)
	}

	subject := fmt.Sprintf("Order confirmation %s", o.OrderNumber)
	if err := s.sendSMTP(ctx, []string{u.Email}, subject, body.String()); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"order_number": o.OrderNumber,
		"to":           u.Email,
	}).Info("Order confirmation sent")
	return nil
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
