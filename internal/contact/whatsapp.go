package contact

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

const qrSize = 256

// WhatsAppLink builds the wa.me deep link for a phone number and greeting.
// Everything but digits is stripped from the number.
func WhatsAppLink(number, greeting string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	if digits == "" {
		return "", fmt.Errorf("whatsapp number %q has no digits", number)
	}

	link := "https://wa.me/" + digits
	if greeting != "" {
		link += "?text=" + strings.ReplaceAll(url.QueryEscape(greeting), "+", "%20")
	}
	return link, nil
}

// WhatsAppQR renders the deep link as a PNG QR code.
func WhatsAppQR(number, greeting string) ([]byte, error) {
	link, err := WhatsAppLink(number, greeting)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(link, qrcode.Medium, qrSize)
}
