package mailer

import "github.com/sirupsen/logrus"

type noopMailer struct{}

func newNoopMailer() Mailer {
	return &noopMailer{}
}

func (m *noopMailer) PurchaseConfirmationMail(data *PurchaseData) error {
	logrus.WithFields(logrus.Fields{
		"email":        data.Email,
		"order_number": data.OrderNumber,
	}).Info("Skipping purchase confirmation mail - mailer not configured")
	return nil
}
