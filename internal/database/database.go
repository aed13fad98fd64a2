package database

import (
	"errors"
	"time"

	"github.com/22mk294/Tempo-Home/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist, or exists but
	// does not belong to the requesting owner. Callers cannot tell the two
	// apart on purpose.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when registering an email that is
	// already taken.
	ErrDuplicateEmail = errors.New("email already registered")
)

// OwnerStats is the owner dashboard summary.
type OwnerStats struct {
	TotalProperties int64 `json:"totalProperties"`
	TotalMessages   int64 `json:"totalMessages"`
	TotalViews      int64 `json:"totalViews"`
}

// MonthCount is an aggregate bucket keyed by "YYYY-MM".
type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// DayCount is an aggregate bucket keyed by "YYYY-MM-DD".
type DayCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// TopMaison is one row of the most-viewed listings board.
type TopMaison struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Views     int64  `json:"views"`
	OwnerName string `json:"ownerName"`
}

// DashboardStats aggregates the whole admin dashboard in one shot. All
// numbers are computed at request time; any failing query fails the lot.
type DashboardStats struct {
	TotalProperties   int64            `json:"totalProperties"`
	TotalMessages     int64            `json:"totalMessages"`
	TotalViews        int64            `json:"totalViews"`
	UsersByType       map[string]int64 `json:"usersByType"`
	PropertiesByMonth []MonthCount     `json:"propertiesByMonth"`
	MessagesByMonth   []MonthCount     `json:"messagesByMonth"`
	ViewsByDay        []DayCount       `json:"viewsByDay"`
	TopProperties     []TopMaison      `json:"topProperties"`
}

// Store is the persistence contract shared by the MySQL (GORM) and
// PostgreSQL (sqlx) implementations.
type Store interface {
	// InitSchema creates or migrates the tables.
	InitSchema() error

	// Users
	CreateUser(u *models.User) error
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id int64) (*models.User, error)
	UpdateUserProfile(id int64, name, phone *string) (*models.User, error)
	ListUsers() ([]models.User, error)

	// Maisons
	ListAvailableMaisons() ([]models.MaisonWithOwner, error)
	GetMaisonByID(id int64) (*models.MaisonDetail, error)
	ListMaisonsByOwner(ownerID int64) ([]models.Maison, error)
	CreateMaison(m *models.Maison) error
	GetMaisonOwned(id, ownerID int64) (*models.Maison, error)
	SaveMaison(m *models.Maison) error
	DeleteMaison(id, ownerID int64) error
	DeleteMaisonByID(id int64) error
	MaisonExists(id int64) (bool, error)
	ListMaisonsWithOwner() ([]models.AdminMaison, error)
	RecordView(v *models.PropertyView) error
	OwnerStats(ownerID int64) (*OwnerStats, error)

	// Messages
	CreateMessage(msg *models.Message) error
	ListMessagesForOwner(ownerID int64) ([]models.MessageWithTitle, error)
	ListMessagesByEmail(email string) ([]models.MessageWithTitle, error)
	ListAllMessages() ([]models.AdminMessage, error)

	// Admin aggregation
	DashboardStats() (*DashboardStats, error)

	// Maintenance
	CountViewsBefore(cutoff time.Time) (int64, error)
	DeleteViewsBefore(cutoff time.Time) (int64, error)

	Close() error
}
