// Package qr renders credential transport strings as PNG QR codes.
package qr

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"

	dErrors "agepass/pkg/domain-errors"
)

const (
	DefaultSize = 256
	MinSize     = 64
	MaxSize     = 1024
)

// Render encodes payload as a PNG QR code of size×size pixels. A size of
// zero selects DefaultSize. Medium error correction leaves room for the
// longest zk payload while tolerating some print damage.
func Render(payload string, size int) ([]byte, error) {
	if strings.TrimSpace(payload) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "payload is required")
	}
	if size == 0 {
		size = DefaultSize
	}
	if size < MinSize || size > MaxSize {
		return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("size must be between %d and %d", MinSize, MaxSize))
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, size)
	if err != nil {
		// go-qrcode fails only when the content exceeds QR capacity
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "payload does not fit in a QR code")
	}
	return png, nil
}

// RenderBase64 is Render with the PNG base64-encoded for embedding in JSON.
func RenderBase64(payload string, size int) (string, error) {
	png, err := Render(payload, size)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
