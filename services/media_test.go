package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/perplexity-school/api/shared"
)

type fakeMediaStorage struct {
	uploads map[string][]byte
}

func newFakeMediaStorage() *fakeMediaStorage {
	return &fakeMediaStorage{uploads: make(map[string][]byte)}
}

func (f *fakeMediaStorage) UploadFile(objectName string, reader io.Reader, objectSize int64, contentType string) (*minio.UploadInfo, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	f.uploads[objectName] = data
	return &minio.UploadInfo{Key: objectName, Size: int64(len(data))}, nil
}

func (f *fakeMediaStorage) GetFileURL(objectName string, expiry time.Duration) (string, error) {
	return "https://storage.test/" + objectName + "?sig=deadbeef", nil
}

type fakeCatalogCache struct {
	invalidations int
}

func (f *fakeCatalogCache) InvalidateLessonCache() {
	f.invalidations++
}

// makeFileHeader builds a real multipart file header whose Open works.
func makeFileHeader(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("CreatePart() error = %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("part.Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("writer.Close() error = %v", err)
	}

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("ReadForm() error = %v", err)
	}
	return form.File["file"][0]
}

func newTestMediaService(t *testing.T) (*MediaService, *fakeMediaStorage, *fakeCatalogCache) {
	t.Helper()
	storage := newFakeMediaStorage()
	cache := &fakeCatalogCache{}
	svc := &MediaService{
		dbSvc:   newTestDatabaseService(t),
		storage: storage,
		catalog: cache,
	}
	return svc, storage, cache
}

func TestUploadThumbnailStoresObjectKey(t *testing.T) {
	svc, storage, cache := newTestMediaService(t)
	lesson := createTestLesson(t, svc.dbSvc, "Intro")

	fh := makeFileHeader(t, "thumb.png", "image/png", []byte("png-bytes"))
	resp, err := svc.UploadThumbnail(lesson.ID, fh)
	if err != nil {
		t.Fatalf("UploadThumbnail() error = %v", err)
	}

	wantPrefix := "thumbnails/" + lesson.ID + "/"
	if !strings.HasPrefix(resp.Key, wantPrefix) {
		t.Errorf("key = %q, want prefix %q", resp.Key, wantPrefix)
	}
	if _, ok := storage.uploads[resp.Key]; !ok {
		t.Error("object never reached storage")
	}

	// The row must hold the key; a presigned URL would expire in place.
	stored, err := svc.dbSvc.GetLesson(lesson.ID)
	if err != nil {
		t.Fatalf("GetLesson() error = %v", err)
	}
	if stored.VideoThumbnail != resp.Key {
		t.Errorf("stored thumbnail = %q, want the object key %q", stored.VideoThumbnail, resp.Key)
	}
	if strings.HasPrefix(stored.VideoThumbnail, "http") {
		t.Error("stored thumbnail is a URL, not an object key")
	}

	if cache.invalidations != 1 {
		t.Errorf("cache invalidations = %d, want 1", cache.invalidations)
	}
}

func TestUploadVideoStoresKeyAndInvalidatesCache(t *testing.T) {
	svc, storage, cache := newTestMediaService(t)
	lesson := createTestLesson(t, svc.dbSvc, "Intro")

	fh := makeFileHeader(t, "lecture.mp4", "video/mp4", []byte("mp4-bytes"))
	resp, err := svc.UploadVideo(lesson.ID, fh)
	if err != nil {
		t.Fatalf("UploadVideo() error = %v", err)
	}

	stored, err := svc.dbSvc.GetLesson(lesson.ID)
	if err != nil {
		t.Fatalf("GetLesson() error = %v", err)
	}
	if stored.VideoURL != resp.Key {
		t.Errorf("stored video = %q, want the object key %q", stored.VideoURL, resp.Key)
	}
	if stored.VideoType != shared.VideoTypeDirect {
		t.Errorf("video type = %q, want %q", stored.VideoType, shared.VideoTypeDirect)
	}
	if _, ok := storage.uploads[resp.Key]; !ok {
		t.Error("object never reached storage")
	}
	if cache.invalidations != 1 {
		t.Errorf("cache invalidations = %d, want 1", cache.invalidations)
	}
}

func TestUploadRejectsUnsupportedContentType(t *testing.T) {
	svc, storage, cache := newTestMediaService(t)
	lesson := createTestLesson(t, svc.dbSvc, "Intro")

	fh := makeFileHeader(t, "notes.txt", "text/plain", []byte("hello"))
	_, err := svc.UploadThumbnail(lesson.ID, fh)
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("UploadThumbnail() error = %v, want 400 AppError", err)
	}

	if len(storage.uploads) != 0 {
		t.Error("rejected upload still reached storage")
	}
	if cache.invalidations != 0 {
		t.Error("rejected upload invalidated the cache")
	}
}

func TestResolveAssetURL(t *testing.T) {
	svc, _, _ := newTestMediaService(t)

	if got := svc.ResolveAssetURL(""); got != "" {
		t.Errorf("empty reference resolved to %q", got)
	}

	// Admin-entered absolute URLs pass through untouched.
	external := "https://cdn.example.com/thumb.png"
	if got := svc.ResolveAssetURL(external); got != external {
		t.Errorf("external URL resolved to %q", got)
	}

	got := svc.ResolveAssetURL("thumbnails/lesson-1/a.png")
	if !strings.HasPrefix(got, "https://storage.test/thumbnails/lesson-1/a.png") {
		t.Errorf("object key resolved to %q, want a presigned URL", got)
	}
}
