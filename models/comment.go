package models

import (
	"time"
)

type Comment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	ReportID  uint      `gorm:"not null;index" json:"report_id"`
	Report    Report    `gorm:"foreignKey:ReportID" json:"-"`
	Text      string    `gorm:"not null;type:text" json:"text"`
}

func (Comment) TableName() string {
	return "comments"
}
