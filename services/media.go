package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/sirupsen/logrus"

	"github.com/perplexity-school/api/dto"
	"github.com/perplexity-school/api/shared"
)

// MediaService stores lesson assets (thumbnails, direct-hosted videos)
// in object storage and hands out presigned URLs for playback.
type MediaService struct {
	context.DefaultService

	dbSvc   *DatabaseService
	storage mediaStorage
	catalog catalogCache
}

// mediaStorage is the slice of MinIOService the upload paths need.
type mediaStorage interface {
	UploadFile(objectName string, reader io.Reader, objectSize int64, contentType string) (*minio.UploadInfo, error)
	GetFileURL(objectName string, expiry time.Duration) (string, error)
}

// catalogCache lets media writes drop the cached lesson list so new
// assets show up without waiting out the TTL.
type catalogCache interface {
	InvalidateLessonCache()
}

const MEDIA_SVC = "media_svc"

const presignedURLExpiry = 4 * time.Hour

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

var allowedVideoTypes = map[string]bool{
	"video/mp4":  true,
	"video/webm": true,
}

func (svc MediaService) Id() string {
	return MEDIA_SVC
}

func (svc *MediaService) Start() error {
	svc.dbSvc = svc.Service(DATABASE_SVC).(*DatabaseService)
	svc.storage = svc.Service(MINIO_SVC).(*MinIOService)
	svc.catalog = svc.Service(LESSON_SVC).(*LessonService)
	return nil
}

// UploadThumbnail stores a lesson thumbnail and points the lesson at
// its object key. Catalog reads presign a fresh URL each time, so
// stored rows never carry an expiring link.
func (svc *MediaService) UploadThumbnail(lessonID string, file *multipart.FileHeader) (*dto.UploadResponse, error) {
	lesson, err := svc.dbSvc.GetLesson(lessonID)
	if err != nil {
		return nil, err
	}

	resp, err := svc.upload("thumbnails", lessonID, file, allowedImageTypes)
	if err != nil {
		return nil, err
	}

	lesson.VideoThumbnail = resp.Key
	if err := svc.dbSvc.UpdateLesson(lesson); err != nil {
		return nil, err
	}
	svc.catalog.InvalidateLessonCache()

	return resp, nil
}

// UploadVideo stores a direct-hosted lesson video.
func (svc *MediaService) UploadVideo(lessonID string, file *multipart.FileHeader) (*dto.UploadResponse, error) {
	lesson, err := svc.dbSvc.GetLesson(lessonID)
	if err != nil {
		return nil, err
	}

	resp, err := svc.upload("videos", lessonID, file, allowedVideoTypes)
	if err != nil {
		return nil, err
	}

	lesson.VideoURL = resp.Key
	lesson.VideoType = shared.VideoTypeDirect
	if err := svc.dbSvc.UpdateLesson(lesson); err != nil {
		return nil, err
	}
	svc.catalog.InvalidateLessonCache()

	return resp, nil
}

// GetPlaybackURL returns a fresh presigned URL for a direct-hosted
// lesson video. Externally hosted videos don't need one.
func (svc *MediaService) GetPlaybackURL(lessonID string) (*dto.PresignedURLResponse, error) {
	lesson, err := svc.dbSvc.GetLesson(lessonID)
	if err != nil {
		return nil, err
	}

	if lesson.VideoType != shared.VideoTypeDirect || lesson.VideoURL == "" {
		return nil, shared.NewBadRequestError(nil, "Lesson video is not hosted in object storage")
	}

	url, err := svc.storage.GetFileURL(lesson.VideoURL, presignedURLExpiry)
	if err != nil {
		return nil, err
	}

	return &dto.PresignedURLResponse{
		URL:       url,
		ExpiresIn: int(presignedURLExpiry.Seconds()),
	}, nil
}

// ResolveAssetURL turns a stored asset reference into a servable URL.
// Admin-entered values are already absolute URLs and pass through;
// uploaded assets are stored as object keys and get presigned here.
func (svc *MediaService) ResolveAssetURL(stored string) string {
	if stored == "" {
		return ""
	}
	if strings.HasPrefix(stored, "http://") || strings.HasPrefix(stored, "https://") {
		return stored
	}

	url, err := svc.storage.GetFileURL(stored, presignedURLExpiry)
	if err != nil {
		logrus.WithError(err).WithField("key", stored).Warn("Failed to presign asset URL")
		return ""
	}
	return url
}

func (svc *MediaService) upload(prefix, lessonID string, file *multipart.FileHeader, allowed map[string]bool) (*dto.UploadResponse, error) {
	contentType := file.Header.Get("Content-Type")
	if !allowed[contentType] {
		return nil, shared.NewBadRequestError(nil, fmt.Sprintf("Unsupported content type: %s", contentType))
	}

	src, err := file.Open()
	if err != nil {
		return nil, shared.NewBadRequestError(err, "Failed to read uploaded file")
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	objectName := fmt.Sprintf("%s/%s/%s%s", prefix, lessonID, uuid.NewString(), ext)

	info, err := svc.storage.UploadFile(objectName, src, file.Size, contentType)
	if err != nil {
		return nil, err
	}

	url, err := svc.storage.GetFileURL(objectName, presignedURLExpiry)
	if err != nil {
		return nil, err
	}

	return &dto.UploadResponse{
		Key:         objectName,
		URL:         url,
		Size:        info.Size,
		ContentType: contentType,
	}, nil
}
