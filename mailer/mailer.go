package mailer

import (
	"github.com/netlify/mailme"
	"github.com/sirupsen/logrus"
)

// Config holds the SMTP settings for the purchase-confirmation mailer.
type Config struct {
	Host        string `envconfig:"host"`
	Port        int    `envconfig:"port" default:"587"`
	User        string `envconfig:"user"`
	Pass        string `envconfig:"pass"`
	From        string `envconfig:"from"`
	AdminEmail  string `envconfig:"admin_email"`
	Subject     string `envconfig:"subject"`
	TemplateURL string `envconfig:"template_url"`
}

// PurchaseData is everything the confirmation email needs.
type PurchaseData struct {
	Email       string
	ProductName string
	OrderNumber string
	DownloadURL string
}

// Mailer sends transactional mail for completed purchases.
type Mailer interface {
	PurchaseConfirmationMail(data *PurchaseData) error
}

// NewMailer returns an SMTP-backed mailer, or a noop mailer when no SMTP
// host is configured.
func NewMailer(siteURL string, config Config) Mailer {
	if config.Host == "" {
		logrus.Info("No SMTP host configured - mail will not be sent")
		return newNoopMailer()
	}

	from := config.From
	if from == "" {
		from = config.AdminEmail
	}

	return &purchaseMailer{
		config: config,
		mailer: &mailme.Mailer{
			Host:    config.Host,
			Port:    config.Port,
			User:    config.User,
			Pass:    config.Pass,
			From:    from,
			BaseURL: siteURL,
			Logger:  logrus.StandardLogger(),
		},
	}
}

type purchaseMailer struct {
	config Config
	mailer *mailme.Mailer
}

const defaultPurchaseSubject = "Your Download: {{ .ProductName }}"

const defaultPurchaseTemplate = `<h2>Your Download is Ready</h2>

<p>Thank you for your purchase! Your copy of <strong>{{ .ProductName }}</strong> is ready for download.</p>

<p><a href="{{ .DownloadURL }}">Download Now</a></p>

<p>This download link expires in 7 days. If you have any issues, reply to this email.</p>

<p>Order Number: {{ .OrderNumber }}<br>
Product: {{ .ProductName }}</p>`

func (m *purchaseMailer) PurchaseConfirmationMail(data *PurchaseData) error {
	subject := m.config.Subject
	if subject == "" {
		subject = defaultPurchaseSubject
	}

	return m.mailer.Mail(
		data.Email,
		subject,
		m.config.TemplateURL,
		defaultPurchaseTemplate,
		map[string]interface{}{
			"ProductName": data.ProductName,
			"OrderNumber": data.OrderNumber,
			"DownloadURL": data.DownloadURL,
		},
	)
}
