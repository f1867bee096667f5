package services

import (
	"testing"

	"github.com/Dosada05/tournament-hub/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidStatusTransition(t *testing.T) {
	assert.True(t, isValidStatusTransition(models.StatusRegistration, models.StatusActive))
	assert.True(t, isValidStatusTransition(models.StatusActive, models.StatusCompleted))
	assert.True(t, isValidStatusTransition(models.StatusActive, models.StatusActive))

	assert.False(t, isValidStatusTransition(models.StatusActive, models.StatusRegistration))
	assert.False(t, isValidStatusTransition(models.StatusCompleted, models.StatusActive))
	assert.False(t, isValidStatusTransition(models.StatusRegistration, models.StatusCompleted))
}

func TestGetExtensionFromContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"image/jpeg", ".jpg"},
		{"image/jpg", ".jpg"},
		{"image/png", ".png"},
		{"image/gif", ".gif"},
		{"image/webp", ".webp"},
		{"image/svg+xml", ".svg"},
	}
	for _, tc := range tests {
		ext, err := GetExtensionFromContentType(tc.contentType)
		require.NoError(t, err, tc.contentType)
		assert.Equal(t, tc.want, ext, tc.contentType)
	}

	_, err := GetExtensionFromContentType("application/pdf")
	assert.Error(t, err)

	_, err = GetExtensionFromContentType("")
	assert.Error(t, err)
}
