package sms

import (
	"errors"
	"fmt"

	"github.com/carwash/carwash-backend/pkg/validator"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// ErrNotConfigured is returned when the Twilio credentials are incomplete
var ErrNotConfigured = errors.New("twilio credentials not configured")

// messageAPI is the subset of the Twilio REST API used here
type messageAPI interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// TwilioConfig holds configuration for the Twilio gateway
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// TwilioGateway implements SMSGateway via the Twilio Messages API.
// Recipients are normalized to E.164 Indonesian numbers.
type TwilioGateway struct {
	api   messageAPI
	from  string
	phone *validator.PhoneValidator
}

// NewTwilioGateway creates a Twilio gateway
func NewTwilioGateway(config TwilioConfig) (*TwilioGateway, error) {
	if config.AccountSID == "" || config.AuthToken == "" || config.FromNumber == "" {
		return nil, ErrNotConfigured
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   config.AccountSID,
		Password:   config.AuthToken,
		AccountSid: config.AccountSID,
	})
	return newTwilioGateway(client.Api, config.FromNumber), nil
}

func newTwilioGateway(api messageAPI, from string) *TwilioGateway {
	return &TwilioGateway{api: api, from: from, phone: validator.NewPhoneValidator()}
}

// Send sends body to phone
func (g *TwilioGateway) Send(phone, body string) (string, error) {
	to, err := g.phone.ToE164(phone)
	if err != nil {
		return "", fmt.Errorf("invalid recipient: %w", err)
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(g.from)
	params.SetBody(body)

	resp, err := g.api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("failed to send SMS: %w", err)
	}
	if resp == nil || resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

// GetName returns the gateway name
func (g *TwilioGateway) GetName() string {
	return "twilio"
}
