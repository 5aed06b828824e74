package coleta

import "net/url"

const (
	// contactSubject is the fixed subject line for mail contact.
	contactSubject = "Interesse na coleta de resíduos"

	// contactMessage is the fixed opening message for whatsapp contact.
	contactMessage = "Tenho interesse na coleta de resíduos"

	// countryPrefix is prepended to stored phone numbers, which are kept
	// without a country code.
	countryPrefix = "55"
)

// MailContact is a prefilled mail action. Opening the composer is up to the
// caller; deriving the content has no side effects.
type MailContact struct {
	Subject   string
	Recipient string
}

// MailAction derives the mail contact for a point.
func MailAction(p Point) MailContact {
	return MailContact{
		Subject:   contactSubject,
		Recipient: p.Email,
	}
}

// WhatsAppAction derives the whatsapp deep-link URI for a point. The stored
// number gets the country prefix and a fixed message.
func WhatsAppAction(p Point) string {
	q := url.Values{}
	q.Set("phone", countryPrefix+p.Whatsapp)
	q.Set("text", contactMessage)
	return "whatsapp://send?" + q.Encode()
}
