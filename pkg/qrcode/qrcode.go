// Package qrcode renders PromptPay payment QR codes as PNG images.
package qrcode

import (
	"bytes"
	"fmt"
	"io"

	pp "github.com/Frontware/promptpay"
	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
)

// GeneratePromptPay encodes a PromptPay payment for the given recipient
// ID and amount (major units) as a PNG QR code.
func GeneratePromptPay(promptPayID string, amount float64) ([]byte, error) {
	payment := pp.PromptPay{PromptPayID: promptPayID, Amount: amount}
	payload, err := payment.Gen()
	if err != nil {
		return nil, fmt.Errorf("error generating PromptPay data: %w", err)
	}

	qrc, err := qrcode.New(payload)
	if err != nil {
		return nil, fmt.Errorf("error creating QR code: %w", err)
	}

	var buf bytes.Buffer
	writer := standard.NewWithWriter(nopCloser{&buf})
	if err := qrc.Save(writer); err != nil {
		return nil, fmt.Errorf("error encoding QR code: %w", err)
	}
	return buf.Bytes(), nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
