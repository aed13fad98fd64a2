package models

import "time"

// PropertyView is an append-only analytics event recorded on each listing
// detail fetch. Viewer identity is best effort.
type PropertyView struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	MaisonID  int64     `gorm:"not null;index" json:"maisonId"`
	ViewerIP  string    `gorm:"type:varchar(45)" json:"viewerIp"`
	UserAgent string    `gorm:"type:text" json:"userAgent"`
	ViewedAt  time.Time `gorm:"autoCreateTime;index" json:"viewedAt"`
}

func (PropertyView) TableName() string {
	return "property_views"
}
