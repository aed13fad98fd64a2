package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// UploadHandler stores listing images on local disk and serves them back
// under /uploads.
type UploadHandler struct {
	dir      string
	maxSize  int64
	maxFiles int
}

func NewUploadHandler(dir string, maxSizeMB int64, maxFiles int) *UploadHandler {
	if maxSizeMB <= 0 {
		maxSizeMB = 5
	}
	if maxFiles <= 0 {
		maxFiles = 10
	}
	return &UploadHandler{
		dir:      dir,
		maxSize:  maxSizeMB * 1024 * 1024,
		maxFiles: maxFiles,
	}
}

// allowedExtensions guards against non-image payloads masquerading behind
// an image content type.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Images accepts up to maxFiles image files under the "images" form field
// and returns their public paths.
func (h *UploadHandler) Images(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no images provided"})
		return
	}
	if len(files) > h.maxFiles {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("too many files, maximum is %d", h.maxFiles),
		})
		return
	}

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		log.Printf("Upload: failed to create directory %s: %v", h.dir, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	paths := make([]string, 0, len(files))
	for _, file := range files {
		if file.Size > h.maxSize {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("file %s exceeds the %d MB limit", file.Filename, h.maxSize/(1024*1024)),
			})
			return
		}

		contentType := file.Header.Get("Content-Type")
		ext := strings.ToLower(filepath.Ext(file.Filename))
		if !strings.HasPrefix(contentType, "image/") || !allowedExtensions[ext] {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("file %s is not a supported image", file.Filename),
			})
			return
		}

		name := randomFilename(ext)
		dst := filepath.Join(h.dir, name)
		if err := c.SaveUploadedFile(file, dst); err != nil {
			log.Printf("Upload: failed to save %s: %v", file.Filename, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file"})
			return
		}

		paths = append(paths, "/uploads/"+name)
	}

	log.Printf("Upload: stored %d image(s)", len(paths))
	c.JSON(http.StatusOK, gin.H{
		"message": "images uploaded",
		"images":  paths,
	})
}

func randomFilename(ext string) string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// rand.Read on crypto/rand never fails on supported platforms
		panic(err)
	}
	return hex.EncodeToString(buf) + ext
}
