package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"net/http"
	"path"
	"strings"
	"time"

	"tavern/internal/models"
	"tavern/internal/observability"
	"tavern/internal/repository"
	"tavern/internal/storage"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	mediaMaxDimension = 2048
	mediaWebPQuality  = 80
)

// MediaService validates, processes and stores uploaded media, then hands
// back a URL suitable for a post's imageUrl or videoUrl field.
type MediaService struct {
	store    storage.Store
	repo     repository.MediaRepository
	maxBytes int64
}

type UploadMediaInput struct {
	OwnerID     uint
	Filename    string
	ContentType string
	Content     []byte
}

func NewMediaService(store storage.Store, repo repository.MediaRepository, maxBytes int64) *MediaService {
	if maxBytes <= 0 {
		maxBytes = 10 * 1024 * 1024
	}
	return &MediaService{store: store, repo: repo, maxBytes: maxBytes}
}

// Upload accepts an image or video upload. Images are downscaled to at most
// 2048px and re-encoded as WebP; videos are stored as-is.
func (s *MediaService) Upload(ctx context.Context, in UploadMediaInput) (*models.MediaObject, error) {
	if in.OwnerID == 0 {
		return nil, models.NewValidationError("Invalid user")
	}
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxBytes/(1024*1024)))
	}

	detected := http.DetectContentType(in.Content)
	switch {
	case isAllowedImageMIME(detected):
		return s.uploadImage(ctx, in)
	case isAllowedVideoMIME(detected):
		return s.uploadVideo(ctx, in, detected)
	default:
		return nil, models.NewValidationError("Unsupported media type")
	}
}

func (s *MediaService) uploadImage(ctx context.Context, in UploadMediaInput) (*models.MediaObject, error) {
	decoded, _, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}

	resized := resizeToFit(decoded, mediaMaxDimension, mediaMaxDimension)
	encoded, err := encodeWebP(resized, mediaWebPQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	key := mediaKey("webp")
	url, err := s.store.Put(ctx, key, bytes.NewReader(encoded), int64(len(encoded)), "image/webp")
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	obj := &models.MediaObject{
		Key:         key,
		URL:         url,
		OwnerID:     in.OwnerID,
		ContentType: "image/webp",
		SizeBytes:   int64(len(encoded)),
	}
	if err := s.repo.Create(ctx, obj); err != nil {
		_ = s.store.Remove(ctx, key)
		return nil, err
	}

	observability.MediaUploads.WithLabelValues("image").Inc()
	return obj, nil
}

func (s *MediaService) uploadVideo(ctx context.Context, in UploadMediaInput, contentType string) (*models.MediaObject, error) {
	ext := strings.TrimPrefix(path.Ext(in.Filename), ".")
	if ext == "" {
		ext = "mp4"
	}

	key := mediaKey(ext)
	url, err := s.store.Put(ctx, key, bytes.NewReader(in.Content), int64(len(in.Content)), contentType)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	obj := &models.MediaObject{
		Key:         key,
		URL:         url,
		OwnerID:     in.OwnerID,
		ContentType: contentType,
		SizeBytes:   int64(len(in.Content)),
	}
	if err := s.repo.Create(ctx, obj); err != nil {
		_ = s.store.Remove(ctx, key)
		return nil, err
	}

	observability.MediaUploads.WithLabelValues("video").Inc()
	return obj, nil
}

// mediaKey builds date-partitioned object keys so buckets stay browsable.
func mediaKey(ext string) string {
	now := time.Now().UTC()
	return fmt.Sprintf("%04d/%02d/%s.%s", now.Year(), now.Month(), uuid.NewString(), ext)
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func isAllowedVideoMIME(contentType string) bool {
	switch strings.ToLower(contentType) {
	case "video/mp4", "video/webm", "video/quicktime":
		return true
	default:
		return false
	}
}
