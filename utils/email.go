package utils

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/keighl/postmark"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"go-restaurant/models"
	"go-restaurant/pricing"
)

// Message is one outgoing email
type Message struct {
	To       string
	ToName   string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mailer delivers messages
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// MailConfig selects and configures a provider. With no credentials the
// mailer only logs, which is the development mode.
type MailConfig struct {
	Sender         string
	PostmarkToken  string
	SendGridAPIKey string
}

// NewMailer picks Postmark, then SendGrid, then the log mailer.
func NewMailer(cfg MailConfig, log *zap.Logger) Mailer {
	switch {
	case cfg.PostmarkToken != "":
		return &PostmarkMailer{client: postmark.NewClient(cfg.PostmarkToken, ""), sender: cfg.Sender}
	case cfg.SendGridAPIKey != "":
		return &SendGridMailer{client: sendgrid.NewSendClient(cfg.SendGridAPIKey), sender: cfg.Sender}
	default:
		log.Info("no mail provider configured, emails will be logged")
		return &LogMailer{log: log}
	}
}

// PostmarkMailer sends through the Postmark API
type PostmarkMailer struct {
	client *postmark.Client
	sender string
}

func (pm *PostmarkMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := pm.client.SendEmail(postmark.Email{
		From:     pm.sender,
		To:       msg.To,
		Subject:  msg.Subject,
		HtmlBody: msg.HTMLBody,
		TextBody: msg.TextBody,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendGridMailer sends through the SendGrid v3 API
type SendGridMailer struct {
	client *sendgrid.Client
	sender string
}

func (sg *SendGridMailer) Send(ctx context.Context, msg Message) error {
	from := mail.NewEmail("Mediterranean Delight", sg.sender)
	to := mail.NewEmail(msg.ToName, msg.To)
	email := mail.NewSingleEmail(from, msg.Subject, to, msg.TextBody, msg.HTMLBody)

	resp, err := sg.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("failed to send email: sendgrid status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// LogMailer writes messages to the log instead of sending them
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (lm *LogMailer) Send(_ context.Context, msg Message) error {
	lm.log.Info("email (development mode, not sent)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.TextBody))
	return nil
}

// CheckoutConfirmation builds the email sent when a cart is handed to the
// booking flow.
func CheckoutConfirmation(req models.CheckoutRequest, snapshot models.CheckoutSnapshot) Message {
	name := req.Customer
	if name == "" {
		name = "Guest"
	}

	var text, rows strings.Builder
	fmt.Fprintf(&text, "Dear %s,\n\nThank you for your order at Mediterranean Delight!\n\n", name)
	for _, item := range snapshot.Items {
		fmt.Fprintf(&text, "%d x %s  %s\n", item.Quantity, item.Name, pricing.Format(item.LineTotal()))
		fmt.Fprintf(&rows, "<tr><td>%d</td><td>%s</td><td>%s</td></tr>",
			item.Quantity, html.EscapeString(item.Name), pricing.Format(item.LineTotal()))
	}
	fmt.Fprintf(&text, "\nSubtotal: %s\n", pricing.Format(snapshot.Subtotal))
	if snapshot.Discount.IsPositive() {
		fmt.Fprintf(&text, "Discount: -%s\n", pricing.Format(snapshot.Discount))
	}
	fmt.Fprintf(&text, "Total: %s\n\nPlease complete your table booking to confirm.\n", pricing.Format(snapshot.Total))

	discountRow := ""
	if snapshot.Discount.IsPositive() {
		discountRow = fmt.Sprintf("<p>Discount: <strong>-%s</strong></p>", pricing.Format(snapshot.Discount))
	}
	htmlBody := fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>Thank you for your order at Mediterranean Delight!<br><br><table>%s</table><p>Subtotal: <strong>%s</strong></p>%s<p>Total: <strong>%s</strong></p><p>Please complete your table booking to confirm.</p>",
		html.EscapeString(name), rows.String(), pricing.Format(snapshot.Subtotal), discountRow, pricing.Format(snapshot.Total),
	)

	return Message{
		To:       req.Email,
		ToName:   req.Customer,
		Subject:  "Order Confirmation - Mediterranean Delight",
		TextBody: text.String(),
		HTMLBody: htmlBody,
	}
}
