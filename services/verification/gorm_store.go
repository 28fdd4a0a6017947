package verification

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTokenStore and GormPendingStore satisfy the same store contracts over
// a database, for deployments where pending state must survive restarts.
type GormTokenStore struct {
	db *gorm.DB
}

func NewGormTokenStore(db *gorm.DB) *GormTokenStore {
	return &GormTokenStore{db: db}
}

func (s *GormTokenStore) Get(token string) (*VerificationToken, bool, error) {
	var t VerificationToken
	if err := s.db.Where("token = ?", token).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to look up verification token: %w", err)
	}
	return &t, true, nil
}

func (s *GormTokenStore) Put(token *VerificationToken) error {
	if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(token).Error; err != nil {
		return fmt.Errorf("failed to store verification token: %w", err)
	}
	return nil
}

func (s *GormTokenStore) Delete(token string) error {
	if err := s.db.Where("token = ?", token).Delete(&VerificationToken{}).Error; err != nil {
		return fmt.Errorf("failed to delete verification token: %w", err)
	}
	return nil
}

func (s *GormTokenStore) DeleteByEmail(email string) (int, error) {
	result := s.db.Where("email = ?", email).Delete(&VerificationToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete verification tokens: %w", result.Error)
	}
	return int(result.RowsAffected), nil
}

type GormPendingStore struct {
	db *gorm.DB
}

func NewGormPendingStore(db *gorm.DB) *GormPendingStore {
	return &GormPendingStore{db: db}
}

func (s *GormPendingStore) Get(email string) (*PendingRegistration, bool, error) {
	var p PendingRegistration
	if err := s.db.Where("email = ?", email).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to look up pending registration: %w", err)
	}
	return &p, true, nil
}

func (s *GormPendingStore) Put(pending *PendingRegistration) error {
	if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(pending).Error; err != nil {
		return fmt.Errorf("failed to store pending registration: %w", err)
	}
	return nil
}

func (s *GormPendingStore) Delete(email string) error {
	if err := s.db.Where("email = ?", email).Delete(&PendingRegistration{}).Error; err != nil {
		return fmt.Errorf("failed to delete pending registration: %w", err)
	}
	return nil
}
