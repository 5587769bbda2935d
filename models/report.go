package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Severities is the closed set of accepted report severities. Anything else
// is rejected at the API boundary.
var Severities = []string{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

func ValidSeverity(s string) bool {
	for _, v := range Severities {
		if s == v {
			return true
		}
	}
	return false
}

// Detection is one bounding box returned by the image analysis service.
// Box is xyxy pixel coordinates.
type Detection struct {
	Conf  float64   `json:"conf"`
	Box   []float64 `json:"box"`
	Class string    `json:"class,omitempty"`
}

// DetectionList stores the raw detection payload as a JSON text column so a
// report returns exactly what was submitted with it.
type DetectionList []Detection

func (d DetectionList) Value() (driver.Value, error) {
	if len(d) == 0 {
		return nil, nil
	}
	return json.Marshal(d)
}

func (d *DetectionList) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("unsupported type %T for detection list", value)
	}
}

type Report struct {
	ID        uint          `gorm:"primarykey" json:"id"`
	CreatedAt time.Time     `gorm:"index" json:"created_at"`
	UserID    uint          `gorm:"not null;index" json:"user_id"`
	User      User          `gorm:"foreignKey:UserID" json:"-"`
	Text      string        `gorm:"not null;type:text" json:"text"`
	Lat       float64       `gorm:"not null" json:"lat"`
	Lon       float64       `gorm:"not null" json:"lon"`
	Severity  string        `gorm:"not null;index" json:"severity"`
	ImageURL  string        `json:"image_url,omitempty"`
	ThumbURL  string        `json:"thumb_url,omitempty"`
	AIConf    *float64      `gorm:"column:ai_conf" json:"ai_conf,omitempty"`
	AIBoxes   DetectionList `gorm:"column:ai_boxes;type:text" json:"detections,omitempty"`
	Verified  bool          `gorm:"default:false;index" json:"verified"`
}

func (Report) TableName() string {
	return "reports"
}
