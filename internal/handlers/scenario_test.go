package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/22mk294/Tempo-Home/internal/models"
)

// TestListingLifecycle walks the happy path end to end: an owner registers,
// publishes a listing, a visitor finds it and sends an inquiry, the owner
// reads it, then deletes the listing and the inquiry disappears with it.
func TestListingLifecycle(t *testing.T) {
	env := newTestEnv(t)

	// Registration.
	w := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name":     "Marie Dupont",
		"email":    "marie@example.com",
		"password": "secret123",
		"phone":    "0612345678",
		"type":     "owner",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status = %d (body: %s)", w.Code, w.Body.String())
	}
	var session struct {
		Token string `json:"token"`
	}
	decodeJSON(t, w, &session)

	// Publish a listing.
	w = env.do(t, http.MethodPost, "/api/maisons", session.Token, map[string]interface{}{
		"title":       "Appartement moderne 3 pièces",
		"description": "Magnifique appartement entièrement rénové avec terrasse et parking.",
		"price":       1320.0,
		"location":    "Paris 15ème",
		"nbRooms":     3,
		"surface":     75.5,
		"images":      []string{"/uploads/photo1.jpg"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status = %d (body: %s)", w.Code, w.Body.String())
	}
	var listing models.Maison
	decodeJSON(t, w, &listing)

	// An anonymous visitor sees it in the feed.
	w = env.do(t, http.MethodGet, "/api/maisons", "", nil)
	var feed []models.MaisonWithOwner
	decodeJSON(t, w, &feed)
	if len(feed) != 1 || feed[0].ID != listing.ID {
		t.Fatalf("feed = %+v, want the new listing", feed)
	}

	// The visitor sends an inquiry.
	w = env.do(t, http.MethodPost, "/api/messages", "", map[string]interface{}{
		"maisonId": listing.ID,
		"name":     "Jean Dubois",
		"email":    "jean@example.com",
		"phone":    "0655443322",
		"message":  "Serait-il possible de visiter cette semaine ?",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("message: status = %d (body: %s)", w.Code, w.Body.String())
	}

	// The owner reads it.
	w = env.do(t, http.MethodGet, "/api/messages/received", session.Token, nil)
	var inbox []models.MessageWithTitle
	decodeJSON(t, w, &inbox)
	if len(inbox) != 1 {
		t.Fatalf("inbox size = %d, want 1", len(inbox))
	}
	if inbox[0].PropertyTitle != listing.Title {
		t.Errorf("propertyTitle = %q, want %q", inbox[0].PropertyTitle, listing.Title)
	}

	// Deleting the listing takes the inquiry with it.
	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/maisons/%d", listing.ID), session.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status = %d (body: %s)", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/messages/received", session.Token, nil)
	decodeJSON(t, w, &inbox)
	if len(inbox) != 0 {
		t.Errorf("inbox size after delete = %d, want 0", len(inbox))
	}

	w = env.do(t, http.MethodGet, "/api/maisons", "", nil)
	decodeJSON(t, w, &feed)
	if len(feed) != 0 {
		t.Errorf("feed size after delete = %d, want 0", len(feed))
	}
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Status string `json:"status"`
	}
	decodeJSON(t, w, &resp)
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/metrics", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}
