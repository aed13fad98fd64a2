package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/22mk294/Tempo-Home/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type PostgresDB struct {
	conn *sqlx.DB
}

func NewPostgresDB(host, port, user, password, dbname, sslmode string) (*PostgresDB, error) {
	if sslmode == "" {
		sslmode = "disable"
	}
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	conn, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		return nil, err
	}
	conn.SetMaxOpenConns(10)

	return &PostgresDB{conn: conn}, nil
}

func (db *PostgresDB) Close() error {
	return db.conn.Close()
}

// InitSchema creates the tables if they don't exist.
func (db *PostgresDB) InitSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL,
		phone VARCHAR(50) NOT NULL,
		type VARCHAR(20) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS maisons (
		id BIGSERIAL PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		price DECIMAL(10, 2) NOT NULL,
		location VARCHAR(255) NOT NULL,
		nb_rooms INTEGER NOT NULL,
		surface DECIMAL(8, 2) NOT NULL,
		images TEXT,
		owner_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		available BOOLEAN NOT NULL DEFAULT TRUE,
		views BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS messages (
		id BIGSERIAL PRIMARY KEY,
		maison_id BIGINT NOT NULL REFERENCES maisons(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(50) NOT NULL,
		message TEXT NOT NULL,
		date TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS property_views (
		id BIGSERIAL PRIMARY KEY,
		maison_id BIGINT NOT NULL REFERENCES maisons(id) ON DELETE CASCADE,
		viewer_ip VARCHAR(45),
		user_agent TEXT,
		viewed_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_maisons_created_at ON maisons(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_maisons_owner_id ON maisons(owner_id);
	CREATE INDEX IF NOT EXISTS idx_messages_maison_id ON messages(maison_id);
	CREATE INDEX IF NOT EXISTS idx_messages_email ON messages(email);
	CREATE INDEX IF NOT EXISTS idx_property_views_viewed_at ON property_views(viewed_at);
	`
	_, err := db.conn.Exec(query)
	return err
}

// ---- Users ----

func (db *PostgresDB) CreateUser(u *models.User) error {
	err := db.conn.QueryRow(`
		INSERT INTO users (name, email, password, phone, type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, u.Name, u.Email, u.Password, u.Phone, u.Type).Scan(&u.ID, &u.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return ErrDuplicateEmail
	}
	return err
}

func (db *PostgresDB) GetUserByEmail(email string) (*models.User, error) {
	return db.getUser("email = $1", email)
}

func (db *PostgresDB) GetUserByID(id int64) (*models.User, error) {
	return db.getUser("id = $1", id)
}

func (db *PostgresDB) getUser(where string, arg interface{}) (*models.User, error) {
	var u models.User
	err := db.conn.QueryRow(`
		SELECT id, name, email, password, phone, type, created_at
		FROM users WHERE `+where,
		arg).Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Phone, &u.Type, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (db *PostgresDB) UpdateUserProfile(id int64, name, phone *string) (*models.User, error) {
	if name != nil {
		if _, err := db.conn.Exec(`UPDATE users SET name = $1 WHERE id = $2`, *name, id); err != nil {
			return nil, err
		}
	}
	if phone != nil {
		if _, err := db.conn.Exec(`UPDATE users SET phone = $1 WHERE id = $2`, *phone, id); err != nil {
			return nil, err
		}
	}
	return db.GetUserByID(id)
}

func (db *PostgresDB) ListUsers() ([]models.User, error) {
	rows, err := db.conn.Query(`
		SELECT id, name, email, password, phone, type, created_at
		FROM users
		WHERE type != 'admin'
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Phone, &u.Type, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ---- Maisons ----

const maisonColumns = `m.id, m.title, m.description, m.price, m.location, m.nb_rooms, m.surface, m.images, m.owner_id, m.available, m.views, m.created_at`

func scanMaison(scan func(dest ...interface{}) error, m *models.Maison, extra ...interface{}) error {
	var rawImages sql.NullString
	dest := []interface{}{
		&m.ID, &m.Title, &m.Description, &m.Price, &m.Location, &m.NbRooms,
		&m.Surface, &rawImages, &m.OwnerID, &m.Available, &m.Views, &m.CreatedAt,
	}
	dest = append(dest, extra...)
	if err := scan(dest...); err != nil {
		return err
	}
	m.Images = decodeImages(rawImages)
	return nil
}

// decodeImages parses the stored JSON array; absent or unparseable text
// yields an empty slice, never nil.
func decodeImages(raw sql.NullString) []string {
	images := []string{}
	if raw.Valid && raw.String != "" {
		if err := json.Unmarshal([]byte(raw.String), &images); err != nil {
			return []string{}
		}
	}
	return images
}

func encodeImages(images []string) string {
	if images == nil {
		images = []string{}
	}
	data, _ := json.Marshal(images)
	return string(data)
}

func (db *PostgresDB) ListAvailableMaisons() ([]models.MaisonWithOwner, error) {
	rows, err := db.conn.Query(`
		SELECT ` + maisonColumns + `, u.name AS owner_name
		FROM maisons m
		JOIN users u ON u.id = m.owner_id
		WHERE m.available = TRUE
		ORDER BY m.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.MaisonWithOwner{}
	for rows.Next() {
		var mw models.MaisonWithOwner
		if err := scanMaison(rows.Scan, &mw.Maison, &mw.OwnerName); err != nil {
			return nil, err
		}
		out = append(out, mw)
	}
	return out, rows.Err()
}

func (db *PostgresDB) GetMaisonByID(id int64) (*models.MaisonDetail, error) {
	row := db.conn.QueryRow(`
		SELECT `+maisonColumns+`, u.name, u.email, u.phone
		FROM maisons m
		JOIN users u ON u.id = m.owner_id
		WHERE m.id = $1
	`, id)

	var d models.MaisonDetail
	err := scanMaison(row.Scan, &d.Maison, &d.OwnerName, &d.OwnerEmail, &d.OwnerPhone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (db *PostgresDB) ListMaisonsByOwner(ownerID int64) ([]models.Maison, error) {
	rows, err := db.conn.Query(`
		SELECT `+maisonColumns+`
		FROM maisons m
		WHERE m.owner_id = $1
		ORDER BY m.created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Maison{}
	for rows.Next() {
		var m models.Maison
		if err := scanMaison(rows.Scan, &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (db *PostgresDB) CreateMaison(m *models.Maison) error {
	return db.conn.QueryRow(`
		INSERT INTO maisons (title, description, price, location, nb_rooms, surface, images, owner_id, available, views)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`, m.Title, m.Description, m.Price, m.Location, m.NbRooms, m.Surface,
		encodeImages(m.Images), m.OwnerID, m.Available, m.Views).Scan(&m.ID, &m.CreatedAt)
}

func (db *PostgresDB) GetMaisonOwned(id, ownerID int64) (*models.Maison, error) {
	row := db.conn.QueryRow(`
		SELECT `+maisonColumns+`
		FROM maisons m
		WHERE m.id = $1 AND m.owner_id = $2
	`, id, ownerID)

	var m models.Maison
	err := scanMaison(row.Scan, &m)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (db *PostgresDB) SaveMaison(m *models.Maison) error {
	_, err := db.conn.Exec(`
		UPDATE maisons
		SET title = $1, description = $2, price = $3, location = $4,
		    nb_rooms = $5, surface = $6, images = $7, available = $8
		WHERE id = $9
	`, m.Title, m.Description, m.Price, m.Location, m.NbRooms, m.Surface,
		encodeImages(m.Images), m.Available, m.ID)
	return err
}

func (db *PostgresDB) DeleteMaison(id, ownerID int64) error {
	res, err := db.conn.Exec(`DELETE FROM maisons WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (db *PostgresDB) DeleteMaisonByID(id int64) error {
	res, err := db.conn.Exec(`DELETE FROM maisons WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *PostgresDB) MaisonExists(id int64) (bool, error) {
	var exists bool
	err := db.conn.Get(&exists, `SELECT EXISTS (SELECT 1 FROM maisons WHERE id = $1)`, id)
	return exists, err
}

func (db *PostgresDB) ListMaisonsWithOwner() ([]models.AdminMaison, error) {
	rows, err := db.conn.Query(`
		SELECT ` + maisonColumns + `, u.name, u.email
		FROM maisons m
		JOIN users u ON u.id = m.owner_id
		ORDER BY m.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.AdminMaison{}
	for rows.Next() {
		var am models.AdminMaison
		if err := scanMaison(rows.Scan, &am.Maison, &am.OwnerName, &am.OwnerEmail); err != nil {
			return nil, err
		}
		out = append(out, am)
	}
	return out, rows.Err()
}

func (db *PostgresDB) RecordView(v *models.PropertyView) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.QueryRow(`
		INSERT INTO property_views (maison_id, viewer_ip, user_agent)
		VALUES ($1, $2, $3)
		RETURNING id, viewed_at
	`, v.MaisonID, v.ViewerIP, v.UserAgent).Scan(&v.ID, &v.ViewedAt); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE maisons SET views = views + 1 WHERE id = $1`, v.MaisonID); err != nil {
		return err
	}
	return tx.Commit()
}

func (db *PostgresDB) OwnerStats(ownerID int64) (*OwnerStats, error) {
	stats := &OwnerStats{}

	if err := db.conn.Get(&stats.TotalProperties,
		`SELECT COUNT(*) FROM maisons WHERE owner_id = $1`, ownerID); err != nil {
		return nil, err
	}
	if err := db.conn.Get(&stats.TotalMessages, `
		SELECT COUNT(*)
		FROM messages msg
		JOIN maisons m ON m.id = msg.maison_id
		WHERE m.owner_id = $1
	`, ownerID); err != nil {
		return nil, err
	}
	if err := db.conn.Get(&stats.TotalViews,
		`SELECT COALESCE(SUM(views), 0) FROM maisons WHERE owner_id = $1`, ownerID); err != nil {
		return nil, err
	}
	return stats, nil
}

// ---- Messages ----

func (db *PostgresDB) CreateMessage(msg *models.Message) error {
	return db.conn.QueryRow(`
		INSERT INTO messages (maison_id, name, email, phone, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, date
	`, msg.MaisonID, msg.Name, msg.Email, msg.Phone, msg.Body).Scan(&msg.ID, &msg.Date)
}

func (db *PostgresDB) listMessages(where string, arg interface{}) ([]models.MessageWithTitle, error) {
	rows, err := db.conn.Query(`
		SELECT msg.id, msg.maison_id, msg.name, msg.email, msg.phone, msg.message, msg.date, m.title
		FROM messages msg
		JOIN maisons m ON m.id = msg.maison_id
		WHERE `+where+`
		ORDER BY msg.date DESC
	`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.MessageWithTitle{}
	for rows.Next() {
		var mt models.MessageWithTitle
		if err := rows.Scan(&mt.ID, &mt.MaisonID, &mt.Name, &mt.Email, &mt.Phone,
			&mt.Body, &mt.Date, &mt.PropertyTitle); err != nil {
			return nil, err
		}
		out = append(out, mt)
	}
	return out, rows.Err()
}

func (db *PostgresDB) ListMessagesForOwner(ownerID int64) ([]models.MessageWithTitle, error) {
	return db.listMessages("m.owner_id = $1", ownerID)
}

func (db *PostgresDB) ListMessagesByEmail(email string) ([]models.MessageWithTitle, error) {
	return db.listMessages("msg.email = $1", email)
}

func (db *PostgresDB) ListAllMessages() ([]models.AdminMessage, error) {
	rows, err := db.conn.Query(`
		SELECT msg.id, msg.maison_id, msg.name, msg.email, msg.phone, msg.message, msg.date,
		       m.title, u.name
		FROM messages msg
		JOIN maisons m ON m.id = msg.maison_id
		JOIN users u ON u.id = m.owner_id
		ORDER BY msg.date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.AdminMessage{}
	for rows.Next() {
		var am models.AdminMessage
		if err := rows.Scan(&am.ID, &am.MaisonID, &am.Name, &am.Email, &am.Phone,
			&am.Body, &am.Date, &am.PropertyTitle, &am.OwnerName); err != nil {
			return nil, err
		}
		out = append(out, am)
	}
	return out, rows.Err()
}

// ---- Admin aggregation ----

func (db *PostgresDB) DashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{UsersByType: map[string]int64{}}

	if err := db.conn.Get(&stats.TotalProperties, `SELECT COUNT(*) FROM maisons`); err != nil {
		return nil, err
	}
	if err := db.conn.Get(&stats.TotalMessages, `SELECT COUNT(*) FROM messages`); err != nil {
		return nil, err
	}
	if err := db.conn.Get(&stats.TotalViews, `SELECT COALESCE(SUM(views), 0) FROM maisons`); err != nil {
		return nil, err
	}

	rows, err := db.conn.Query(`
		SELECT type, COUNT(*) FROM users WHERE type != 'admin' GROUP BY type
	`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var userType string
		var count int64
		if err := rows.Scan(&userType, &count); err != nil {
			rows.Close()
			return nil, err
		}
		stats.UsersByType[userType] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if stats.PropertiesByMonth, err = db.monthCounts(`
		SELECT to_char(created_at, 'YYYY-MM') AS month, COUNT(*)
		FROM maisons
		WHERE created_at >= NOW() - INTERVAL '6 months'
		GROUP BY month ORDER BY month
	`); err != nil {
		return nil, err
	}

	if stats.MessagesByMonth, err = db.monthCounts(`
		SELECT to_char(date, 'YYYY-MM') AS month, COUNT(*)
		FROM messages
		WHERE date >= NOW() - INTERVAL '6 months'
		GROUP BY month ORDER BY month
	`); err != nil {
		return nil, err
	}

	dayRows, err := db.conn.Query(`
		SELECT to_char(viewed_at, 'YYYY-MM-DD') AS day, COUNT(*)
		FROM property_views
		WHERE viewed_at >= NOW() - INTERVAL '30 days'
		GROUP BY day ORDER BY day
	`)
	if err != nil {
		return nil, err
	}
	defer dayRows.Close()
	stats.ViewsByDay = []DayCount{}
	for dayRows.Next() {
		var dc DayCount
		if err := dayRows.Scan(&dc.Day, &dc.Count); err != nil {
			return nil, err
		}
		stats.ViewsByDay = append(stats.ViewsByDay, dc)
	}
	if err := dayRows.Err(); err != nil {
		return nil, err
	}

	topRows, err := db.conn.Query(`
		SELECT m.id, m.title, m.views, u.name
		FROM maisons m
		JOIN users u ON u.id = m.owner_id
		ORDER BY m.views DESC
		LIMIT 5
	`)
	if err != nil {
		return nil, err
	}
	defer topRows.Close()
	stats.TopProperties = []TopMaison{}
	for topRows.Next() {
		var tm TopMaison
		if err := topRows.Scan(&tm.ID, &tm.Title, &tm.Views, &tm.OwnerName); err != nil {
			return nil, err
		}
		stats.TopProperties = append(stats.TopProperties, tm)
	}
	return stats, topRows.Err()
}

func (db *PostgresDB) monthCounts(query string) ([]MonthCount, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []MonthCount{}
	for rows.Next() {
		var mc MonthCount
		if err := rows.Scan(&mc.Month, &mc.Count); err != nil {
			return nil, err
		}
		out = append(out, mc)
	}
	return out, rows.Err()
}

// ---- Maintenance ----

func (db *PostgresDB) CountViewsBefore(cutoff time.Time) (int64, error) {
	var count int64
	err := db.conn.Get(&count, `SELECT COUNT(*) FROM property_views WHERE viewed_at < $1`, cutoff)
	return count, err
}

func (db *PostgresDB) DeleteViewsBefore(cutoff time.Time) (int64, error) {
	res, err := db.conn.Exec(`DELETE FROM property_views WHERE viewed_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
