package codec

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"toya/internal/core"
)

// DefaultQRSize is the pixel edge length of rendered receipt QR images.
const DefaultQRSize = 256

// BuildQRPayload assembles the canonical string encoded into a receipt's QR
// code. The exact shape (field order, separators, labels) is the contract
// scanners rely on; any QR rendering library is interchangeable as long as
// this string is what gets encoded.
func BuildQRPayload(referenceID string, amount core.Money, date string) string {
	return "TOYA-REC:" + referenceID + "|AMT:" + amount.FormatShort() + "|DATE:" + date
}

// RenderQRPNG encodes a payload into a PNG image of size x size pixels.
func RenderQRPNG(payload string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultQRSize
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr payload: %w", err)
	}
	return png, nil
}
