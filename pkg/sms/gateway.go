package sms

// SMSGateway defines the interface for sending SMS messages
type SMSGateway interface {
	// Send delivers body to phone and returns the provider message ID
	Send(phone, body string) (string, error)

	// GetName returns the name of the SMS gateway implementation
	GetName() string
}
