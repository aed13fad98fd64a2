package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/22mk294/Tempo-Home/internal/auth"
	"github.com/22mk294/Tempo-Home/internal/config"
	"github.com/22mk294/Tempo-Home/internal/database"
	"github.com/22mk294/Tempo-Home/internal/models"

	"github.com/gin-gonic/gin"
)

// memStore is an in-memory Store used by the handler tests. It mimics the
// relational cascades: deleting a maison drops its messages and view events.
type memStore struct {
	mu       sync.Mutex
	users    map[int64]*models.User
	maisons  map[int64]*models.Maison
	messages map[int64]*models.Message
	views    []*models.PropertyView
	nextID   int64
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[int64]*models.User),
		maisons:  make(map[int64]*models.Maison),
		messages: make(map[int64]*models.Message),
		nextID:   1,
	}
}

func (s *memStore) id() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *memStore) InitSchema() error { return nil }
func (s *memStore) Close() error      { return nil }

func (s *memStore) CreateUser(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return database.ErrDuplicateEmail
		}
	}
	u.ID = s.id()
	u.CreatedAt = time.Now()
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *memStore) GetUserByEmail(email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *memStore) GetUserByID(id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memStore) UpdateUserProfile(id int64, name, phone *string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	if name != nil {
		u.Name = *name
	}
	if phone != nil {
		u.Phone = *phone
	}
	cp := *u
	return &cp, nil
}

func (s *memStore) ListUsers() ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		if u.Type == models.UserTypeAdmin {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) ListAvailableMaisons() ([]models.MaisonWithOwner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.MaisonWithOwner{}
	for _, m := range s.maisons {
		if !m.Available {
			continue
		}
		out = append(out, models.MaisonWithOwner{Maison: *m, OwnerName: s.ownerName(m.OwnerID)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *memStore) GetMaisonByID(id int64) (*models.MaisonDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.maisons[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	detail := &models.MaisonDetail{Maison: *m}
	if owner, ok := s.users[m.OwnerID]; ok {
		detail.OwnerName = owner.Name
		detail.OwnerEmail = owner.Email
		detail.OwnerPhone = owner.Phone
	}
	return detail, nil
}

func (s *memStore) ListMaisonsByOwner(ownerID int64) ([]models.Maison, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Maison{}
	for _, m := range s.maisons {
		if m.OwnerID == ownerID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *memStore) CreateMaison(m *models.Maison) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.id()
	m.CreatedAt = time.Now()
	cp := *m
	s.maisons[m.ID] = &cp
	return nil
}

func (s *memStore) GetMaisonOwned(id, ownerID int64) (*models.Maison, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.maisons[id]
	if !ok || m.OwnerID != ownerID {
		return nil, database.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *memStore) SaveMaison(m *models.Maison) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.maisons[m.ID]; !ok {
		return database.ErrNotFound
	}
	cp := *m
	s.maisons[m.ID] = &cp
	return nil
}

func (s *memStore) DeleteMaison(id, ownerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.maisons[id]
	if !ok || m.OwnerID != ownerID {
		return database.ErrNotFound
	}
	s.cascadeDelete(id)
	return nil
}

func (s *memStore) DeleteMaisonByID(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.maisons[id]; !ok {
		return database.ErrNotFound
	}
	s.cascadeDelete(id)
	return nil
}

func (s *memStore) cascadeDelete(id int64) {
	delete(s.maisons, id)
	for msgID, msg := range s.messages {
		if msg.MaisonID == id {
			delete(s.messages, msgID)
		}
	}
	kept := s.views[:0]
	for _, v := range s.views {
		if v.MaisonID != id {
			kept = append(kept, v)
		}
	}
	s.views = kept
}

func (s *memStore) MaisonExists(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.maisons[id]
	return ok, nil
}

func (s *memStore) ListMaisonsWithOwner() ([]models.AdminMaison, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.AdminMaison{}
	for _, m := range s.maisons {
		row := models.AdminMaison{Maison: *m}
		if owner, ok := s.users[m.OwnerID]; ok {
			row.OwnerName = owner.Name
			row.OwnerEmail = owner.Email
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *memStore) RecordView(v *models.PropertyView) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.maisons[v.MaisonID]
	if !ok {
		return database.ErrNotFound
	}
	v.ID = s.id()
	v.ViewedAt = time.Now()
	cp := *v
	s.views = append(s.views, &cp)
	m.Views++
	return nil
}

func (s *memStore) OwnerStats(ownerID int64) (*database.OwnerStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := &database.OwnerStats{}
	owned := map[int64]bool{}
	for _, m := range s.maisons {
		if m.OwnerID == ownerID {
			stats.TotalProperties++
			stats.TotalViews += m.Views
			owned[m.ID] = true
		}
	}
	for _, msg := range s.messages {
		if owned[msg.MaisonID] {
			stats.TotalMessages++
		}
	}
	return stats, nil
}

func (s *memStore) CreateMessage(msg *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg.ID = s.id()
	msg.Date = time.Now()
	cp := *msg
	s.messages[msg.ID] = &cp
	return nil
}

func (s *memStore) ListMessagesForOwner(ownerID int64) ([]models.MessageWithTitle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.MessageWithTitle{}
	for _, msg := range s.messages {
		m, ok := s.maisons[msg.MaisonID]
		if !ok || m.OwnerID != ownerID {
			continue
		}
		out = append(out, models.MessageWithTitle{Message: *msg, PropertyTitle: m.Title})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *memStore) ListMessagesByEmail(email string) ([]models.MessageWithTitle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.MessageWithTitle{}
	for _, msg := range s.messages {
		if msg.Email != email {
			continue
		}
		row := models.MessageWithTitle{Message: *msg}
		if m, ok := s.maisons[msg.MaisonID]; ok {
			row.PropertyTitle = m.Title
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *memStore) ListAllMessages() ([]models.AdminMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.AdminMessage{}
	for _, msg := range s.messages {
		row := models.AdminMessage{Message: *msg}
		if m, ok := s.maisons[msg.MaisonID]; ok {
			row.PropertyTitle = m.Title
			row.OwnerName = s.ownerName(m.OwnerID)
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *memStore) DashboardStats() (*database.DashboardStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := &database.DashboardStats{
		TotalProperties: int64(len(s.maisons)),
		TotalMessages:   int64(len(s.messages)),
		UsersByType:     map[string]int64{},
	}
	for _, u := range s.users {
		if u.Type == models.UserTypeAdmin {
			continue
		}
		stats.UsersByType[string(u.Type)]++
	}
	for _, m := range s.maisons {
		stats.TotalViews += m.Views
	}
	return stats, nil
}

func (s *memStore) CountViewsBefore(cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, v := range s.views {
		if v.ViewedAt.Before(cutoff) {
			n++
		}
	}
	return n, nil
}

func (s *memStore) DeleteViewsBefore(cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.views[:0]
	var deleted int64
	for _, v := range s.views {
		if v.ViewedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, v)
	}
	s.views = kept
	return deleted, nil
}

func (s *memStore) ownerName(id int64) string {
	if u, ok := s.users[id]; ok {
		return u.Name
	}
	return ""
}

// testEnv bundles a router wired to a memStore.
type testEnv struct {
	router *gin.Engine
	store  *memStore
	tokens *auth.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newMemStore()
	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Upload.Dir = t.TempDir()

	return &testEnv{
		router: SetupRouter(store, tokens, nil, cfg),
		store:  store,
		tokens: tokens,
	}
}

// addUser inserts a user directly into the store and returns it with a
// valid bearer token.
func (e *testEnv) addUser(t *testing.T, name, email string, userType models.UserType) (*models.User, string) {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	u := &models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Phone:    "0612345678",
		Type:     userType,
	}
	if err := e.store.CreateUser(u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	token, err := e.tokens.Issue(u.ID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return u, token
}

func (e *testEnv) addMaison(t *testing.T, ownerID int64, title string, available bool) *models.Maison {
	t.Helper()
	m := &models.Maison{
		Title:       title,
		Description: "A perfectly serviceable description of the listing.",
		Price:       1000,
		Location:    "Paris",
		NbRooms:     3,
		Surface:     75,
		Images:      []string{},
		OwnerID:     ownerID,
		Available:   available,
	}
	if err := e.store.CreateMaison(m); err != nil {
		t.Fatalf("CreateMaison: %v", err)
	}
	return m
}

// do performs a request against the router. A non-nil body is JSON encoded;
// a non-empty token is sent as a bearer token.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}
