package models

import (
	"time"
)

const (
	VoteUp   = "up"
	VoteDown = "down"
)

func ValidVoteType(s string) bool {
	return s == VoteUp || s == VoteDown
}

// Vote is keyed by (user, report): a user holds at most one vote per report
// and casting again replaces the previous one.
type Vote struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	ReportID  uint      `gorm:"primaryKey;autoIncrement:false;index" json:"report_id"`
	Report    Report    `gorm:"foreignKey:ReportID" json:"-"`
	VoteType  string    `gorm:"not null" json:"vote_type"`
	CreatedAt time.Time `json:"created_at"`
}

func (Vote) TableName() string {
	return "votes"
}
