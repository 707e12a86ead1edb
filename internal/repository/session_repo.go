package repository

import (
	"github.com/chiaobuy/liango/internal/entity"
	"gorm.io/gorm"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) List(page, size int) ([]entity.Session, int64, error) {
	var total int64
	r.db.Model(&entity.Session{}).Count(&total)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	var sessions []entity.Session
	err := r.db.Order("archived_at DESC").Offset((page - 1) * size).Limit(size).Find(&sessions).Error
	return sessions, total, err
}

func (r *SessionRepository) GetByID(id string) (*entity.Session, error) {
	var s entity.Session
	err := r.db.Where("id = ?", id).First(&s).Error
	return &s, err
}
