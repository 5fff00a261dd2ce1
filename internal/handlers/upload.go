package handlers

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tablebook/internal/config"
)

const maxImageSize = 5 << 20

var allowedImageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// UploadImage stores a multipart image and returns its public URL. Used for
// profile images, restaurant photos and review attachments.
func UploadImage() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /upload"
		defer handlePanic(c, route)

		file, err := c.FormFile("image")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "image file is required")
			return
		}

		relPath, err := saveImage(file)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"url":     publicUploadURL(relPath),
		})
	}
}

func saveImage(file *multipart.FileHeader) (string, error) {
	extension := strings.ToLower(filepath.Ext(file.Filename))
	if err := validateImageUpload(extension, file.Size); err != nil {
		return "", err
	}

	filename := uuid.NewString() + extension

	dir := config.AppEnv.UploadDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("[UPLOAD] saveImage: failed to create directory %s: %v", dir, err)
		return "", err
	}

	fullPath := filepath.Join(dir, filename)

	out, err := os.Create(fullPath)
	if err != nil {
		log.Printf("[UPLOAD] saveImage: failed to create file %s: %v", fullPath, err)
		return "", err
	}
	defer out.Close()

	in, err := file.Open()
	if err != nil {
		log.Printf("[UPLOAD] saveImage: failed to open upload %s: %v", file.Filename, err)
		return "", err
	}
	defer in.Close()

	if _, err := io.Copy(out, in); err != nil {
		log.Printf("[UPLOAD] saveImage: failed to save file %s: %v", fullPath, err)
		return "", err
	}

	return filepath.ToSlash(filepath.Join("uploads", filename)), nil
}

// publicUploadURL maps a stored relative path ("uploads/<file>") to the URL
// it is served under. The public dir is mounted at /public, so the path must
// carry that prefix for the static route to resolve it.
func publicUploadURL(relPath string) string {
	return "/public/" + strings.TrimPrefix(relPath, "/")
}

func validateImageUpload(extension string, size int64) error {
	if extension == "" {
		return fmt.Errorf("image file extension is required")
	}
	if _, ok := allowedImageExtensions[extension]; !ok {
		return fmt.Errorf("unsupported image type: %s", extension)
	}
	if size > maxImageSize {
		return fmt.Errorf("image file too large (max 5MB)")
	}
	return nil
}

// safeDeleteUpload removes a previously uploaded file given its stored path,
// either the bare "uploads/<file>" form or the served "/public/uploads/<file>"
// URL. Traversal outside the public dir is rejected.
func safeDeleteUpload(relPath string) error {
	trimmed := strings.TrimSpace(relPath)
	if trimmed == "" {
		return nil
	}

	cleanRel := path.Clean("/" + strings.TrimPrefix(trimmed, "/"))
	cleanRel = strings.TrimPrefix(cleanRel, "/")
	cleanRel = strings.TrimPrefix(cleanRel, "public/")

	if !strings.HasPrefix(cleanRel, "uploads/") {
		return fmt.Errorf("refusing to delete non-upload path: %s", relPath)
	}

	cleanBase := filepath.Clean(config.AppEnv.PublicBaseDir)
	targetPath := filepath.Join(cleanBase, filepath.FromSlash(cleanRel))
	cleanTarget := filepath.Clean(targetPath)
	if cleanTarget != cleanBase && !strings.HasPrefix(cleanTarget, cleanBase+string(os.PathSeparator)) {
		return fmt.Errorf("refusing to delete path outside public root: %s", relPath)
	}

	if err := os.Remove(cleanTarget); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	return nil
}
