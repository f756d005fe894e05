package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	portsrepo "github.com/SscSPs/pos_core/internal/core/ports/repositories"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// EncodeCursor creates an opaque next-page token from the last row of a page.
// A nil cursor encodes to the empty token.
func EncodeCursor(cursor *portsrepo.PageCursor) string {
	if cursor == nil {
		return ""
	}
	return EncodeMultiFieldToken(cursor.CreatedAt.UTC().Format(timeFormat), cursor.ID)
}

// DecodeCursor parses a token produced by EncodeCursor. The empty token means
// the first page and yields a nil cursor.
func DecodeCursor(token string) (*portsrepo.PageCursor, error) {
	if token == "" {
		return nil, nil
	}
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return nil, err
	}
	if len(parts) != 2 || parts[1] == "" {
		return nil, fmt.Errorf("invalid pagination token format (split)")
	}
	createdAt, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}
	return &portsrepo.PageCursor{CreatedAt: createdAt, ID: parts[1]}, nil
}

// EncodeMultiFieldToken creates a URL-safe token with any number of string fields
func EncodeMultiFieldToken(fields ...string) string {
	tokenStr := strings.Join(fields, "|")
	return base64.RawURLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeMultiFieldToken decodes a token into its component fields
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}

	tokenStr := string(decodedBytes)
	parts := strings.Split(tokenStr, "|")
	return parts, nil
}
