package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	entryDate := time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2025, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(entryDate, createdAt)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedEntryDate, decodedCreatedAt, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, entryDate, decodedEntryDate, "Entry date should match after decode")
	assert.Equal(t, createdAt, decodedCreatedAt, "Created at time should match after decode")

	now := time.Now().UTC()
	nowToken := EncodeToken(now, now)
	decodedNowDate, decodedNowTime, err := DecodeToken(nowToken)
	assert.NoError(t, err, "Decoding current time should not return an error")
	assert.True(t, now.Equal(decodedNowDate), "Current date should match after decode")
	assert.True(t, now.Equal(decodedNowTime), "Current time should match after decode")
}

func TestDecodeTokenError(t *testing.T) {
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")

	// Base64 encoded date without separator
	invalidToken := "MjAyMy0wNS0xNVQwMDowMDowMFo="
	_, _, err = DecodeToken(invalidToken)
	assert.Error(t, err, "Should return an error for invalid token format")
	assert.Contains(t, err.Error(), "split", "Error should mention splitting issue")
}
