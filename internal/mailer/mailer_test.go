package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBookingReceipt(t *testing.T) {
	data := map[string]any{
		"reservationID": "RES-0001",
		"movieTitle":    "Arrival",
		"theater":       "Hall 3",
		"startsAt":      "Apr 28, 2025 19:30",
		"seats":         []string{"C4", "C5"},
		"totalPrice":    "25.98",
	}

	subject, plainBody, htmlBody, err := render("booking_receipt.tmpl", data)
	require.NoError(t, err)

	assert.Equal(t, "Your tickets for Arrival (RES-0001)", subject)
	assert.Contains(t, plainBody, "Seats:       C4, C5")
	assert.Contains(t, plainBody, "Total:       $25.98")
	assert.Contains(t, htmlBody, "<strong>RES-0001</strong>")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := render("missing.tmpl", nil)
	assert.Error(t, err)
}

func TestMockMailer(t *testing.T) {
	m := NewMockMailer()

	require.NoError(t, m.Send("a@example.com", "booking_receipt.tmpl", nil))
	assert.Len(t, m.SentEmails(), 1)

	m.Reset()
	assert.Empty(t, m.SentEmails())
}
