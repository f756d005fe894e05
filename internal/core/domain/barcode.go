package domain

import (
	"strings"

	"github.com/SscSPs/pos_core/internal/apperrors"
)

const (
	minBarcodeLength = 6
	maxBarcodeLength = 20
)

// NormalizeBarcode trims and validates a product barcode: digits only, 6 to 20 long.
func NormalizeBarcode(raw string) (string, error) {
	code := strings.TrimSpace(raw)
	if code == "" {
		return "", apperrors.New(apperrors.CodeInvalidArgument, "barcode is required")
	}
	if len(code) < minBarcodeLength || len(code) > maxBarcodeLength {
		return "", apperrors.Newf(apperrors.CodeInvalidArgument, "barcode must be between %d and %d digits", minBarcodeLength, maxBarcodeLength)
	}
	if !isDigits(code) {
		return "", apperrors.New(apperrors.CodeInvalidArgument, "barcode must contain digits only")
	}
	return code, nil
}

// isDigits reports whether s is non-empty and made of ASCII digits only.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
