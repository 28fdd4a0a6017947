package session

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/mileusna/useragent"
	"gorm.io/gorm"
)

type sessionService struct {
	db *gorm.DB
}

func NewSessionService(db *gorm.DB) Service {
	return &sessionService{db: db}
}

func (s *sessionService) TrackSession(userID uint, token, ipAddress, userAgentString string, expiresAt time.Time) error {
	browser, os := parseUserAgent(userAgentString)

	record := UserSession{
		UserID:    userID,
		Token:     digestToken(token),
		IPAddress: ipAddress,
		UserAgent: userAgentString,
		Browser:   browser,
		OS:        os,
		CreatedAt: time.Now(),
		LastUsed:  time.Now(),
		ExpiresAt: expiresAt,
	}

	return s.db.Create(&record).Error
}

func (s *sessionService) SessionExists(token string) (bool, error) {
	var count int64
	err := s.db.Model(&UserSession{}).
		Where("token = ?", digestToken(token)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *sessionService) UpdateLastUsed(token string) error {
	return s.db.Model(&UserSession{}).
		Where("token = ?", digestToken(token)).
		Update("last_used", time.Now()).Error
}

func (s *sessionService) GetUserSessions(userID uint, currentToken string) ([]UserSession, error) {
	var sessions []UserSession

	err := s.db.Where("user_id = ? AND expires_at > ?", userID, time.Now()).
		Order("last_used DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	currentDigest := digestToken(currentToken)
	for i := range sessions {
		if sessions[i].Token == currentDigest {
			sessions[i].Current = true
		}
	}

	return sessions, nil
}

func (s *sessionService) RemoveSessionByToken(token string) error {
	return s.db.Where("token = ?", digestToken(token)).Delete(&UserSession{}).Error
}

func (s *sessionService) CleanupExpiredSessions() error {
	return s.db.Where("expires_at < ?", time.Now()).Delete(&UserSession{}).Error
}

func digestToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

func parseUserAgent(userAgentString string) (browser, os string) {
	browser, os = "Unknown Browser", "Unknown OS"
	if userAgentString == "" {
		return browser, os
	}

	ua := useragent.Parse(userAgentString)
	if ua.Name != "" {
		browser = ua.Name
		if ua.Version != "" {
			browser += " " + ua.Version
		}
	}
	if ua.OS != "" {
		os = ua.OS
		if ua.OSVersion != "" {
			os += " " + ua.OSVersion
		}
	}

	return browser, os
}
