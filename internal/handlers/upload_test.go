package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"tablebook/internal/config"
)

func TestValidateImageUploadAllowedExtensions(t *testing.T) {
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".webp"} {
		if err := validateImageUpload(ext, 1024); err != nil {
			t.Fatalf("expected %s to be accepted, got %v", ext, err)
		}
	}
}

func TestValidateImageUploadRejectsExtension(t *testing.T) {
	for _, ext := range []string{"", ".gif", ".svg", ".exe", ".pdf"} {
		if err := validateImageUpload(ext, 1024); err == nil {
			t.Fatalf("expected %q to be rejected", ext)
		}
	}
}

func TestValidateImageUploadSizeLimit(t *testing.T) {
	if err := validateImageUpload(".png", maxImageSize); err != nil {
		t.Fatalf("expected file at the limit to be accepted, got %v", err)
	}
	if err := validateImageUpload(".png", maxImageSize+1); err == nil {
		t.Fatal("expected oversized file to be rejected")
	}
}

func TestUploadedURLIsServedByStaticMount(t *testing.T) {
	gin.SetMode(gin.TestMode)

	publicDir := t.TempDir()
	previous := config.AppEnv
	config.AppEnv.UploadDir = filepath.Join(publicDir, "uploads")
	config.AppEnv.PublicBaseDir = publicDir
	defer func() { config.AppEnv = previous }()

	r := gin.New()
	r.Static("/public", publicDir)
	r.POST("/upload", UploadImage())

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", "photo.png")
	if err != nil {
		t.Fatalf("CreateFormFile returned error: %v", err)
	}
	if _, err := part.Write([]byte("png-bytes")); err != nil {
		t.Fatalf("writing form file failed: %v", err)
	}
	_ = writer.Close()

	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("upload returned %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if !strings.HasPrefix(resp.URL, "/public/uploads/") {
		t.Fatalf("expected url under /public/uploads/, got %q", resp.URL)
	}

	fetch := httptest.NewRequest("GET", resp.URL, nil)
	fetchRec := httptest.NewRecorder()
	r.ServeHTTP(fetchRec, fetch)
	if fetchRec.Code != http.StatusOK {
		t.Fatalf("GET %s returned %d, want 200", resp.URL, fetchRec.Code)
	}
}

func TestPublicUploadURL(t *testing.T) {
	if got := publicUploadURL("uploads/a.png"); got != "/public/uploads/a.png" {
		t.Fatalf("publicUploadURL = %q, want /public/uploads/a.png", got)
	}
	if got := publicUploadURL("/uploads/a.png"); got != "/public/uploads/a.png" {
		t.Fatalf("publicUploadURL = %q, want /public/uploads/a.png", got)
	}
}

func TestSafeDeleteUploadAcceptsServedURL(t *testing.T) {
	publicDir := t.TempDir()
	previous := config.AppEnv
	config.AppEnv.PublicBaseDir = publicDir
	defer func() { config.AppEnv = previous }()

	uploadDir := filepath.Join(publicDir, "uploads")
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	target := filepath.Join(uploadDir, "old.png")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if err := safeDeleteUpload("/public/uploads/old.png"); err != nil {
		t.Fatalf("safeDeleteUpload returned error: %v", err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatal("expected uploaded file to be removed")
	}
}

func TestSafeDeleteUploadRejectsNonUploadPaths(t *testing.T) {
	for _, path := range []string{"etc/passwd", "/etc/passwd", "../secrets.txt", "public/index.html"} {
		if err := safeDeleteUpload(path); err == nil {
			t.Fatalf("expected %q to be rejected", path)
		}
	}
}

func TestSafeDeleteUploadRejectsTraversal(t *testing.T) {
	if err := safeDeleteUpload("uploads/../../etc/passwd"); err == nil {
		t.Fatal("expected traversal path to be rejected")
	}
}

func TestSafeDeleteUploadEmptyPathIsNoOp(t *testing.T) {
	if err := safeDeleteUpload(""); err != nil {
		t.Fatalf("expected empty path to be a no-op, got %v", err)
	}
	if err := safeDeleteUpload("   "); err != nil {
		t.Fatalf("expected blank path to be a no-op, got %v", err)
	}
}
