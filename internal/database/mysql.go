package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/22mk294/Tempo-Home/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GormDB struct {
	db *gorm.DB
}

func NewGormDB(host, port, user, password, dbname string) (*GormDB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, password, host, port, dbname)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)

	return &GormDB{db: db}, nil
}

func (gdb *GormDB) Close() error {
	sqlDB, err := gdb.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InitSchema creates tables using GORM AutoMigrate.
func (gdb *GormDB) InitSchema() error {
	return gdb.db.AutoMigrate(
		&models.User{},
		&models.Maison{},
		&models.Message{},
		&models.PropertyView{},
	)
}

// ---- Users ----

func (gdb *GormDB) CreateUser(u *models.User) error {
	// Pre-check keeps the common duplicate path off the unique-index error;
	// the index still backs the invariant under concurrent registration.
	var count int64
	if err := gdb.db.Model(&models.User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateEmail
	}
	if err := gdb.db.Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (gdb *GormDB) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := gdb.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (gdb *GormDB) GetUserByID(id int64) (*models.User, error) {
	var user models.User
	err := gdb.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (gdb *GormDB) UpdateUserProfile(id int64, name, phone *string) (*models.User, error) {
	updates := map[string]interface{}{}
	if name != nil {
		updates["name"] = *name
	}
	if phone != nil {
		updates["phone"] = *phone
	}
	if len(updates) > 0 {
		if err := gdb.db.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return gdb.GetUserByID(id)
}

func (gdb *GormDB) ListUsers() ([]models.User, error) {
	users := []models.User{}
	err := gdb.db.Where("type != ?", models.UserTypeAdmin).
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

// ---- Maisons ----

func (gdb *GormDB) ListAvailableMaisons() ([]models.MaisonWithOwner, error) {
	out := []models.MaisonWithOwner{}
	err := gdb.db.Table("maisons").
		Select("maisons.*, users.name AS owner_name").
		Joins("JOIN users ON users.id = maisons.owner_id").
		Where("maisons.available = ?", true).
		Order("maisons.created_at DESC").
		Find(&out).Error
	return out, err
}

func (gdb *GormDB) GetMaisonByID(id int64) (*models.MaisonDetail, error) {
	var detail models.MaisonDetail
	err := gdb.db.Table("maisons").
		Select("maisons.*, users.name AS owner_name, users.email AS owner_email, users.phone AS owner_phone").
		Joins("JOIN users ON users.id = maisons.owner_id").
		Where("maisons.id = ?", id).
		First(&detail).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (gdb *GormDB) ListMaisonsByOwner(ownerID int64) ([]models.Maison, error) {
	maisons := []models.Maison{}
	err := gdb.db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&maisons).Error
	return maisons, err
}

func (gdb *GormDB) CreateMaison(m *models.Maison) error {
	return gdb.db.Create(m).Error
}

func (gdb *GormDB) GetMaisonOwned(id, ownerID int64) (*models.Maison, error) {
	var maison models.Maison
	err := gdb.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&maison).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &maison, nil
}

func (gdb *GormDB) SaveMaison(m *models.Maison) error {
	return gdb.db.Save(m).Error
}

func (gdb *GormDB) DeleteMaison(id, ownerID int64) error {
	res := gdb.db.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Maison{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (gdb *GormDB) DeleteMaisonByID(id int64) error {
	res := gdb.db.Delete(&models.Maison{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (gdb *GormDB) MaisonExists(id int64) (bool, error) {
	var count int64
	err := gdb.db.Model(&models.Maison{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (gdb *GormDB) ListMaisonsWithOwner() ([]models.AdminMaison, error) {
	out := []models.AdminMaison{}
	err := gdb.db.Table("maisons").
		Select("maisons.*, users.name AS owner_name, users.email AS owner_email").
		Joins("JOIN users ON users.id = maisons.owner_id").
		Order("maisons.created_at DESC").
		Find(&out).Error
	return out, err
}

func (gdb *GormDB) RecordView(v *models.PropertyView) error {
	return gdb.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(v).Error; err != nil {
			return err
		}
		return tx.Model(&models.Maison{}).
			Where("id = ?", v.MaisonID).
			UpdateColumn("views", gorm.Expr("views + 1")).Error
	})
}

func (gdb *GormDB) OwnerStats(ownerID int64) (*OwnerStats, error) {
	stats := &OwnerStats{}

	if err := gdb.db.Model(&models.Maison{}).
		Where("owner_id = ?", ownerID).
		Count(&stats.TotalProperties).Error; err != nil {
		return nil, err
	}

	if err := gdb.db.Model(&models.Message{}).
		Joins("JOIN maisons ON maisons.id = messages.maison_id").
		Where("maisons.owner_id = ?", ownerID).
		Count(&stats.TotalMessages).Error; err != nil {
		return nil, err
	}

	if err := gdb.db.Model(&models.Maison{}).
		Where("owner_id = ?", ownerID).
		Select("COALESCE(SUM(views), 0)").
		Scan(&stats.TotalViews).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// ---- Messages ----

func (gdb *GormDB) CreateMessage(msg *models.Message) error {
	return gdb.db.Create(msg).Error
}

func (gdb *GormDB) ListMessagesForOwner(ownerID int64) ([]models.MessageWithTitle, error) {
	out := []models.MessageWithTitle{}
	err := gdb.db.Table("messages").
		Select("messages.*, maisons.title AS property_title").
		Joins("JOIN maisons ON maisons.id = messages.maison_id").
		Where("maisons.owner_id = ?", ownerID).
		Order("messages.date DESC").
		Find(&out).Error
	return out, err
}

func (gdb *GormDB) ListMessagesByEmail(email string) ([]models.MessageWithTitle, error) {
	out := []models.MessageWithTitle{}
	err := gdb.db.Table("messages").
		Select("messages.*, maisons.title AS property_title").
		Joins("JOIN maisons ON maisons.id = messages.maison_id").
		Where("messages.email = ?", email).
		Order("messages.date DESC").
		Find(&out).Error
	return out, err
}

func (gdb *GormDB) ListAllMessages() ([]models.AdminMessage, error) {
	out := []models.AdminMessage{}
	err := gdb.db.Table("messages").
		Select("messages.*, maisons.title AS property_title, users.name AS owner_name").
		Joins("JOIN maisons ON maisons.id = messages.maison_id").
		Joins("JOIN users ON users.id = maisons.owner_id").
		Order("messages.date DESC").
		Find(&out).Error
	return out, err
}

// ---- Admin aggregation ----

func (gdb *GormDB) DashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{UsersByType: map[string]int64{}}

	if err := gdb.db.Model(&models.Maison{}).Count(&stats.TotalProperties).Error; err != nil {
		return nil, err
	}
	if err := gdb.db.Model(&models.Message{}).Count(&stats.TotalMessages).Error; err != nil {
		return nil, err
	}
	if err := gdb.db.Model(&models.Maison{}).
		Select("COALESCE(SUM(views), 0)").
		Scan(&stats.TotalViews).Error; err != nil {
		return nil, err
	}

	type typeCount struct {
		Type  string
		Count int64
	}
	var byType []typeCount
	if err := gdb.db.Model(&models.User{}).
		Select("type, COUNT(*) AS count").
		Where("type != ?", models.UserTypeAdmin).
		Group("type").
		Scan(&byType).Error; err != nil {
		return nil, err
	}
	for _, tc := range byType {
		stats.UsersByType[tc.Type] = tc.Count
	}

	sixMonthsAgo := time.Now().AddDate(0, -6, 0)
	if err := gdb.db.Model(&models.Maison{}).
		Select("DATE_FORMAT(created_at, '%Y-%m') AS month, COUNT(*) AS count").
		Where("created_at >= ?", sixMonthsAgo).
		Group("DATE_FORMAT(created_at, '%Y-%m')").
		Order("month").
		Scan(&stats.PropertiesByMonth).Error; err != nil {
		return nil, err
	}

	if err := gdb.db.Model(&models.Message{}).
		Select("DATE_FORMAT(date, '%Y-%m') AS month, COUNT(*) AS count").
		Where("date >= ?", sixMonthsAgo).
		Group("DATE_FORMAT(date, '%Y-%m')").
		Order("month").
		Scan(&stats.MessagesByMonth).Error; err != nil {
		return nil, err
	}

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	if err := gdb.db.Model(&models.PropertyView{}).
		Select("DATE_FORMAT(viewed_at, '%Y-%m-%d') AS day, COUNT(*) AS count").
		Where("viewed_at >= ?", thirtyDaysAgo).
		Group("DATE_FORMAT(viewed_at, '%Y-%m-%d')").
		Order("day").
		Scan(&stats.ViewsByDay).Error; err != nil {
		return nil, err
	}

	if err := gdb.db.Table("maisons").
		Select("maisons.id, maisons.title, maisons.views, users.name AS owner_name").
		Joins("JOIN users ON users.id = maisons.owner_id").
		Order("maisons.views DESC").
		Limit(5).
		Scan(&stats.TopProperties).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// ---- Maintenance ----

func (gdb *GormDB) CountViewsBefore(cutoff time.Time) (int64, error) {
	var count int64
	err := gdb.db.Model(&models.PropertyView{}).Where("viewed_at < ?", cutoff).Count(&count).Error
	return count, err
}

func (gdb *GormDB) DeleteViewsBefore(cutoff time.Time) (int64, error) {
	res := gdb.db.Where("viewed_at < ?", cutoff).Delete(&models.PropertyView{})
	return res.RowsAffected, res.Error
}
