package entity

import (
	"time"
)

// Session 一次連線（收单周期），结束时由归档操作建立
type Session struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name       string    `json:"name" gorm:"size:200;not null"`
	OrderCount int       `json:"order_count" gorm:"not null;default:0"`
	ArchivedAt time.Time `json:"archived_at" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Session) TableName() string {
	return "sessions"
}
