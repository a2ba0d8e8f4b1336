package clients

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"sareeledger-backend/logger"
)

var ErrMessagingDisabled = errors.New("server-side WhatsApp is not configured")

// WhatsAppLink builds the click-to-chat deep link. No delivery is implied.
func WhatsAppLink(phoneDigits, message string) string {
	link := "https://wa.me/" + phoneDigits
	if message != "" {
		// spaces as %20, the way browsers encode a URI component
		link += "?text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	}
	return link
}

// Messenger delivers a WhatsApp message and returns the provider id.
type Messenger interface {
	SendWhatsApp(toDigits, body string) (string, error)
	Enabled() bool
}

type twilioMessenger struct {
	log    *logger.Logger
	client *twilio.RestClient
	from   string
}

func NewTwilioMessenger(log *logger.Logger, accountSID, authToken, fromNumber string) Messenger {
	return &twilioMessenger{
		log: log.With("service", "TwilioMessenger"),
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: fromNumber,
	}
}

func (m *twilioMessenger) Enabled() bool { return true }

func (m *twilioMessenger) SendWhatsApp(toDigits, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo("whatsapp:+" + strings.TrimPrefix(toDigits, "+"))
	params.SetFrom("whatsapp:" + m.from)
	params.SetBody(body)

	resp, err := m.client.Api.CreateMessage(params)
	if err != nil {
		m.log.Warn("whatsapp send failed", "to", toDigits, "error", err)
		return "", fmt.Errorf("twilio create message: %w", err)
	}
	if resp.Sid == nil {
		m.log.Info("whatsapp sent without SID", "to", toDigits)
		return "", nil
	}
	m.log.Info("whatsapp sent", "to", toDigits, "sid", *resp.Sid)
	return *resp.Sid, nil
}

type disabledMessenger struct{}

func NewDisabledMessenger() Messenger { return disabledMessenger{} }

func (disabledMessenger) Enabled() bool { return false }
func (disabledMessenger) SendWhatsApp(string, string) (string, error) {
	return "", ErrMessagingDisabled
}
