package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	portsrepo "github.com/SscSPs/pos_core/internal/core/ports/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeCursor(t *testing.T) {
	createdAt := time.Date(2024, 3, 15, 14, 30, 45, 123456789, time.UTC)
	cursor := &portsrepo.PageCursor{CreatedAt: createdAt, ID: "8b0c5a3e-1d7f-4c2e-9a51-6f1f2e3d4c5b"}

	token := EncodeCursor(cursor)
	assert.NotEmpty(t, token, "Token should not be empty")
	assert.NotContains(t, token, "=", "Token should be safe to put in a query string")

	decoded, err := DecodeCursor(token)
	require.NoError(t, err)
	require.NotNil(t, decoded)
	assert.True(t, createdAt.Equal(decoded.CreatedAt), "Created at should match after decode")
	assert.Equal(t, cursor.ID, decoded.ID)
}

func TestCursor_EmptyTokenIsFirstPage(t *testing.T) {
	assert.Equal(t, "", EncodeCursor(nil))

	decoded, err := DecodeCursor("")
	assert.NoError(t, err)
	assert.Nil(t, decoded)
}

func TestDecodeCursor_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "!!!not-base64!!!"},
		{"single field", EncodeMultiFieldToken("2024-03-15T14:30:45Z")},
		{"bad time", EncodeMultiFieldToken("yesterday", "id-1")},
		{"missing id", EncodeMultiFieldToken("2024-03-15T14:30:45Z", "")},
		{"too many fields", base64.RawURLEncoding.EncodeToString([]byte("a|b|c"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCursor(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestMultiFieldToken(t *testing.T) {
	fields := []string{"field1", "field2", "field3"}
	token := EncodeMultiFieldToken(fields...)

	decoded, err := DecodeMultiFieldToken(token)
	assert.NoError(t, err, "Decoding multi-field token should not return an error")
	assert.Equal(t, fields, decoded, "Fields should match after decode")
}
