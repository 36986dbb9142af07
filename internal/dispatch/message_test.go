package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/go-disaster-relief/internal/models"
)

func TestComposeMessage_Payout(t *testing.T) {
	u := &models.User{Email: "jdoe@example.com"}
	alert := &models.Alert{
		Severity:    "Extreme",
		Event:       "Tornado Warning",
		Headline:    "Tornado Warning until 5PM",
		Description: "Take shelter <now>",
		AreaDesc:    "Tangipahoa",
	}

	msg, err := composeMessage(u, alert, true, 100, 250)
	require.NoError(t, err)

	assert.Equal(t, "jdoe@example.com", msg.To)
	assert.Equal(t, "Extreme Alert: Tornado Warning - $100 relief payment issued", msg.Subject)
	assert.Contains(t, msg.HTML, "Hello jdoe")
	assert.Contains(t, msg.HTML, "Take shelter &lt;now&gt;")
	assert.Contains(t, msg.HTML, "$250")
	assert.Contains(t, msg.Text, "Area: Tangipahoa")
	assert.Contains(t, msg.Text, "Your balance is now $250.")
}

func TestComposeMessage_NoPayoutDefaults(t *testing.T) {
	u := &models.User{Email: "a@example.com", Name: "Alex"}

	msg, err := composeMessage(u, &models.Alert{}, false, 100, 0)
	require.NoError(t, err)

	assert.Equal(t, "Unknown Alert: Weather Alert", msg.Subject)
	assert.Contains(t, msg.Text, "Hello Alex,")
	assert.NotContains(t, msg.Text, "relief payment")
}
