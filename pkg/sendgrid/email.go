package sendgrid

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/aaravmahajanofficial/storefront-sync/internal/models"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Message struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

type EmailService interface {
	Send(ctx context.Context, msg *Message) error
	SendOrderConfirmation(ctx context.Context, to, name, currency string, order *models.Order) error
	GetSendGridClient() *sendgrid.Client
}

type emailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey string, fromEmail string, fromName string) EmailService {
	return &emailService{client: sendgrid.NewSendClient(apiKey), fromEmail: fromEmail, fromName: fromName}
}

func (e *emailService) Send(ctx context.Context, msg *Message) error {

	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(e.fromName, e.fromEmail))

	personalization := mail.NewPersonalization()
	personalization.AddTos(mail.NewEmail(msg.ToName, msg.To))
	personalization.Subject = msg.Subject
	message.AddPersonalizations(personalization)

	message.AddContent(mail.NewContent("text/plain", msg.Text))
	if msg.HTML != "" {
		message.AddContent(mail.NewContent("text/html", msg.HTML))
	}

	response, err := e.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	return nil
}

// SendOrderConfirmation mails the committed order with its item lines and totals.
func (e *emailService) SendOrderConfirmation(ctx context.Context, to, name, currency string, order *models.Order) error {
	return e.Send(ctx, orderConfirmation(to, name, currency, order))
}

func orderConfirmation(to, name, currency string, order *models.Order) *Message {

	var text, body strings.Builder

	fmt.Fprintf(&text, "Hi %s,\n\nThanks for your order %s.\n\n", name, order.ID)
	body.WriteString("<ul>")

	for _, item := range order.Items {
		line := fmt.Sprintf("%d x %s (%s) @ %s%s", item.Quantity, item.Name, item.Size, currency, item.Price.StringFixed(2))
		text.WriteString(line + "\n")
		body.WriteString("<li>" + html.EscapeString(line) + "</li>")
	}

	body.WriteString("</ul>")

	totals := fmt.Sprintf("Subtotal: %s%s\nDelivery: %s%s\nTotal: %s%s\n",
		currency, order.Subtotal.StringFixed(2),
		currency, order.DeliveryFee.StringFixed(2),
		currency, order.TotalAmount.StringFixed(2))

	text.WriteString("\n" + totals)
	body.WriteString("<p>" + strings.ReplaceAll(html.EscapeString(strings.TrimSpace(totals)), "\n", "<br>") + "</p>")

	return &Message{
		To:      to,
		ToName:  name,
		Subject: "Order confirmed #" + order.ID.String()[:8],
		Text:    text.String(),
		HTML:    "<p>Hi " + html.EscapeString(name) + ", thanks for your order.</p>" + body.String(),
	}
}

// GetSendGridClient provides access to the internal sendgrid.Client.
func (e *emailService) GetSendGridClient() *sendgrid.Client {
	return e.client
}
