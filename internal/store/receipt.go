package store

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// DefaultQRGenerator encodes the public deep link of an order.
type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Link(orderNumber int) string {
	return fmt.Sprintf("%s/feed/%d", g.BaseURL, orderNumber)
}

func (g DefaultQRGenerator) Generate(orderNumber int) ([]byte, error) {
	return qrcode.Encode(g.Link(orderNumber), qrcode.Medium, 256)
}

var _ QRGenerator = DefaultQRGenerator{}
