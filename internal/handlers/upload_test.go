package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/22mk294/Tempo-Home/internal/models"
)

func multipartImage(t *testing.T, filename, contentType string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="images"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestUploadImages(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.addUser(t, "Marie Dupont", "marie@example.com", models.UserTypeOwner)

	body, contentType := multipartImage(t, "photo.jpg", "image/jpeg", []byte("fake-jpeg-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload/images", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", w.Code, w.Body.String())
	}

	var resp struct {
		Images []string `json:"images"`
	}
	decodeJSON(t, w, &resp)
	if len(resp.Images) != 1 {
		t.Fatalf("got %d image paths, want 1", len(resp.Images))
	}
	if !strings.HasPrefix(resp.Images[0], "/uploads/") {
		t.Errorf("path = %q, want a /uploads/ prefix", resp.Images[0])
	}
	if !strings.HasSuffix(resp.Images[0], ".jpg") {
		t.Errorf("path = %q, want the original extension kept", resp.Images[0])
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.addUser(t, "Marie Dupont", "marie@example.com", models.UserTypeOwner)

	body, contentType := multipartImage(t, "script.sh", "application/x-sh", []byte("#!/bin/sh"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload/images", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body: %s)", w.Code, w.Body.String())
	}
}

func TestUploadRejectsImageTypeWithBadExtension(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.addUser(t, "Marie Dupont", "marie@example.com", models.UserTypeOwner)

	// Content type says image, extension says otherwise.
	body, contentType := multipartImage(t, "photo.exe", "image/jpeg", []byte("payload"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload/images", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestUploadRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := multipartImage(t, "photo.jpg", "image/jpeg", []byte("bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload/images", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestUploadNoFiles(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.addUser(t, "Marie Dupont", "marie@example.com", models.UserTypeOwner)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("unrelated", "value"); err != nil {
		t.Fatalf("WriteField: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload/images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
