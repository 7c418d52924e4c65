package mailx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSMTPMailerRejectsMalformedTemplates(t *testing.T) {
	t.Parallel()

	_, err := NewSMTPMailer(SMTPConfig{}, map[string]string{
		"broken": "Hello {{.Name",
	})
	require.Error(t, err)
}

func TestBuildMessageIncludesHeadersAndBody(t *testing.T) {
	t.Parallel()

	msg := string(buildMessage("noreply@checkin.example", "alice@example.com", "Welcome", "hello alice"))
	require.Contains(t, msg, "From: noreply@checkin.example\r\n")
	require.Contains(t, msg, "To: alice@example.com\r\n")
	require.Contains(t, msg, "Subject: Welcome\r\n")
	require.Contains(t, msg, "\r\n\r\nhello alice")
}
