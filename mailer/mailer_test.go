package mailer

import (
	"bytes"
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMailerWhenUnconfigured(t *testing.T) {
	m := NewMailer("https://shop.example.com", Config{})
	assert.IsType(t, &noopMailer{}, m)
	assert.NoError(t, m.PurchaseConfirmationMail(&PurchaseData{Email: "buyer@example.com"}))
}

func TestSMTPMailerWhenConfigured(t *testing.T) {
	m := NewMailer("https://shop.example.com", Config{Host: "smtp.example.com", AdminEmail: "noreply@example.com"})
	assert.IsType(t, &purchaseMailer{}, m)
}

func TestDefaultTemplateRenders(t *testing.T) {
	tmpl, err := template.New("purchase").Parse(defaultPurchaseTemplate)
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	err = tmpl.Execute(buf, map[string]interface{}{
		"ProductName": "Bedroom Boss",
		"OrderNumber": "ST_123XYZ",
		"DownloadURL": "https://shop.example.com/downloads/tok",
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Bedroom Boss")
	assert.Contains(t, buf.String(), "https://shop.example.com/downloads/tok")
	assert.Contains(t, buf.String(), "ST_123XYZ")
}

func TestDefaultSubjectRenders(t *testing.T) {
	tmpl, err := template.New("subject").Parse(defaultPurchaseSubject)
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, tmpl.Execute(buf, map[string]interface{}{"ProductName": "Bedroom Boss"}))
	assert.Equal(t, "Your Download: Bedroom Boss", buf.String())
}
