package unit

import (
	"testing"
	"time"

	"aora_backend/internal/aora/domain"
	"aora_backend/pkg/encrypt"

	"github.com/stretchr/testify/assert"
)

func TestAccountPasswordMatch(t *testing.T) {
	hashed, err := encrypt.HashPassword("secret123")
	assert.NoError(t, err)

	account := domain.Account{
		ID:       1,
		Email:    "user@example.com",
		Password: hashed,
	}

	assert.True(t, account.IsPasswordMatch("secret123") == nil, "should match correct password")
	assert.False(t, account.IsPasswordMatch("wrongpass") == nil, "should not match incorrect password")
}

func TestSessionExpiration(t *testing.T) {
	session := domain.Session{
		SessionID: "sess-1",
		AccountID: "acc-1",
		Token:     "abcd1234",
		CreatedAt: time.Now(),
		ExpiredAt: time.Now().Add(-1 * time.Minute), // 已經過期
	}

	assert.True(t, session.IsExpired(), "session should be expired")

	session.ExpiredAt = time.Now().Add(time.Hour)
	assert.False(t, session.IsExpired(), "session should still be valid")
}

func TestFileAssetIsVideo(t *testing.T) {
	video := domain.FileAsset{Name: "clip.mp4", MIMEType: "video/mp4"}
	image := domain.FileAsset{Name: "thumb.png", MIMEType: "image/png"}

	assert.True(t, video.IsVideo())
	assert.False(t, image.IsVideo())
}

func TestPasswordStrength(t *testing.T) {
	assert.NoError(t, encrypt.ValidatePasswordStrength("secret123"))
	assert.Error(t, encrypt.ValidatePasswordStrength("short"))
}
