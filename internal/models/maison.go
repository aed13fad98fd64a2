package models

import "time"

// Maison is a rental property advertisement. Images are stored as a JSON
// array in a text column; the serializer keeps callers away from the raw
// encoding.
type Maison struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Location    string    `gorm:"type:varchar(255);not null" json:"location"`
	NbRooms     int       `gorm:"not null" json:"nbRooms"`
	Surface     float64   `gorm:"type:decimal(8,2);not null" json:"surface"`
	Images      []string  `gorm:"type:text;serializer:json" json:"images"`
	OwnerID     int64     `gorm:"not null;index" json:"ownerId"`
	Available   bool      `gorm:"not null;default:true;index" json:"available"`
	Views       int64     `gorm:"not null;default:0" json:"views"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_maisons_created_at,sort:desc" json:"createdAt"`

	// Cascade wiring: deleting a maison removes its messages and view events.
	Messages []Message      `gorm:"foreignKey:MaisonID;constraint:OnDelete:CASCADE" json:"-"`
	ViewLog  []PropertyView `gorm:"foreignKey:MaisonID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Maison) TableName() string {
	return "maisons"
}

// MaisonWithOwner is a listing joined with its owner's display name, as
// returned by the public listing feed.
type MaisonWithOwner struct {
	Maison    `gorm:"embedded"`
	OwnerName string `json:"ownerName"`
}

// MaisonDetail is the detail-page shape: the listing plus the owner's
// contact information.
type MaisonDetail struct {
	Maison     `gorm:"embedded"`
	OwnerName  string `json:"ownerName"`
	OwnerEmail string `json:"ownerEmail"`
	OwnerPhone string `json:"ownerPhone"`
}

// AdminMaison is the moderation view: listing plus owner name and email.
type AdminMaison struct {
	Maison     `gorm:"embedded"`
	OwnerName  string `json:"ownerName"`
	OwnerEmail string `json:"ownerEmail"`
}

// MaisonUpdate carries a partial update; nil fields are left unchanged.
type MaisonUpdate struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Location    *string   `json:"location"`
	NbRooms     *int      `json:"nbRooms"`
	Surface     *float64  `json:"surface"`
	Images      *[]string `json:"images"`
	Available   *bool     `json:"available"`
}

// Apply copies the set fields onto m.
func (u *MaisonUpdate) Apply(m *Maison) {
	if u.Title != nil {
		m.Title = *u.Title
	}
	if u.Description != nil {
		m.Description = *u.Description
	}
	if u.Price != nil {
		m.Price = *u.Price
	}
	if u.Location != nil {
		m.Location = *u.Location
	}
	if u.NbRooms != nil {
		m.NbRooms = *u.NbRooms
	}
	if u.Surface != nil {
		m.Surface = *u.Surface
	}
	if u.Images != nil {
		m.Images = *u.Images
	}
	if u.Available != nil {
		m.Available = *u.Available
	}
}
