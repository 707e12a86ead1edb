package repository

import (
	"errors"

	"github.com/chiaobuy/liango/internal/entity"
	"gorm.io/gorm"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Load 显式读取全局设置，不存在时落预设值（幂等自举）
func (r *SettingsRepository) Load() (*entity.Settings, error) {
	var s entity.Settings
	err := r.db.Where("id = ?", entity.SettingsID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := entity.DefaultSettings()
		if err := r.db.Create(defaults).Error; err != nil {
			return nil, err
		}
		return defaults, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Save 整体覆盖保存（设置是单行记录，不做字段级增量更新）
func (r *SettingsRepository) Save(s *entity.Settings) error {
	s.ID = entity.SettingsID
	return r.db.Save(s).Error
}
