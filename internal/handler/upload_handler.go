package handler

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

const maxUploadSize = 5 << 20

var allowedImageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// UploadImage 保存文章配图，返回可直接用作 featuredImage 的 URL。
func (a *API) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "No image uploaded")
		return
	}
	if file.Size > maxUploadSize {
		respondError(c, http.StatusBadRequest, "Image exceeds 5 MB")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") || !allowedImageExtensions[ext] {
		respondError(c, http.StatusBadRequest, "Only PNG, JPEG, GIF and WebP images are allowed")
		return
	}

	cfg, format, err := decodeImageConfig(file)
	if err != nil || "."+format != normalizedImageExt(ext) {
		respondError(c, http.StatusBadRequest, "File content is not a valid image")
		return
	}

	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		a.logger.Error().Err(err).Str("dir", a.uploadDir).Msg("create upload dir failed")
		respondError(c, http.StatusInternalServerError, "Failed to save image")
		return
	}

	filename := fmt.Sprintf("%s-%s%s", a.now().Format("20060102"), uuid.NewString(), ext)
	if err := c.SaveUploadedFile(file, filepath.Join(a.uploadDir, filename)); err != nil {
		a.logger.Error().Err(err).Msg("save upload failed")
		respondError(c, http.StatusInternalServerError, "Failed to save image")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"url":     strings.TrimRight(a.uploadURL, "/") + "/" + filename,
		"width":   cfg.Width,
		"height":  cfg.Height,
	})
}

// decodeImageConfig 只读取图片头部，确认内容与扩展名一致。
func decodeImageConfig(file *multipart.FileHeader) (image.Config, string, error) {
	f, err := file.Open()
	if err != nil {
		return image.Config{}, "", err
	}
	defer f.Close()
	return image.DecodeConfig(f)
}

func normalizedImageExt(ext string) string {
	if ext == ".jpg" {
		return ".jpeg"
	}
	return ext
}
