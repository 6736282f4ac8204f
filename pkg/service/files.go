package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/blog-in-go/pkg/apperr"
	"github.com/doodlesbykumbi/blog-in-go/pkg/metrics"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server/store"
)

// PublicPrefix is the URL path uploads are served under
const PublicPrefix = "/uploads/"

// sniffLen is how much of a body is read to detect its type
const sniffLen = 3072

// AllowedTypes lists the MIME types accepted for upload
var AllowedTypes = []string{"image/jpeg", "image/png", "application/pdf", "application/zip"}

var typesByExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".pdf":  "application/pdf",
	".zip":  "application/zip",
	".rar":  "application/x-rar-compressed",
}

// TypeByExtension returns the listing MIME type for a file name
func TypeByExtension(name string) string {
	if t, ok := typesByExt[strings.ToLower(filepath.Ext(name))]; ok {
		return t
	}
	return "application/octet-stream"
}

// Upload is one incoming file part
type Upload struct {
	OriginalName string
	// DeclaredType is the part's Content-Type, possibly empty
	DeclaredType string
	// Size is the declared length, or -1 when unknown
	Size int64
	Body io.Reader
}

// UploadedFile describes a stored upload
type UploadedFile struct {
	URL          string    `json:"url"`
	Name         string    `json:"name"`
	OriginalName string    `json:"originalName"`
	Size         int64     `json:"size"`
	Mimetype     string    `json:"mimetype"`
	UploadTime   time.Time `json:"uploadTime"`
}

// FileEntry is one row of the file listing
type FileEntry struct {
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Size       int64     `json:"size"`
	Mimetype   string    `json:"mimetype"`
	CreateTime time.Time `json:"createTime"`
}

// DeletedFile is returned by a successful delete
type DeletedFile struct {
	FileName string `json:"fileName"`
}

// FileService handles uploads
type FileService struct {
	files   store.FilesStore
	maxSize int64
	logger  *zap.Logger
	now     func() time.Time
}

// NewFileService creates a FileService accepting files up to maxSize bytes
func NewFileService(files store.FilesStore, maxSize int64, logger *zap.Logger) *FileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileService{
		files:   files,
		maxSize: maxSize,
		logger:  logger.Named("FileService"),
		now:     time.Now,
	}
}

// MaxSize returns the upload limit in bytes
func (s *FileService) MaxSize() int64 {
	return s.maxSize
}

// Save checks type and size and stores the file as <uuid><ext>
func (s *FileService) Save(ctx context.Context, up Upload) (*UploadedFile, error) {
	body := up.Body
	mtype := normalizeType(up.DeclaredType)

	if mtype == "" || mtype == "application/octet-stream" {
		head := make([]byte, sniffLen)
		n, err := io.ReadFull(body, head)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, apperr.Internal("failed to read upload", err)
		}
		head = head[:n]
		mtype = normalizeType(mimetype.Detect(head).String())
		body = io.MultiReader(bytes.NewReader(head), body)
	}

	if !allowed(mtype) {
		return nil, apperr.Validation("file type not allowed, supported: %s", strings.Join(AllowedTypes, ", "))
	}
	if up.Size > s.maxSize {
		return nil, s.tooLarge(up.Size)
	}

	name := uuid.NewString() + filepath.Ext(up.OriginalName)
	log := s.logger.With(zap.String("name", name), zap.String("original_name", up.OriginalName))

	n, err := s.files.Save(ctx, name, body, s.maxSize)
	if err != nil {
		if errors.Is(err, store.ErrFileTooLarge) {
			log.Warn("Upload exceeded size limit")
			return nil, s.tooLarge(-1)
		}
		log.Error("Failed to store upload", zap.Error(err))
		return nil, apperr.Internal("file upload failed", err)
	}

	metrics.Uploaded(n)
	log.Info("File uploaded", zap.Int64("size", n), zap.String("mimetype", mtype))
	return &UploadedFile{
		URL:          PublicPrefix + name,
		Name:         name,
		OriginalName: up.OriginalName,
		Size:         n,
		Mimetype:     mtype,
		UploadTime:   s.now().UTC(),
	}, nil
}

// Delete removes a stored file by name
func (s *FileService) Delete(ctx context.Context, name string) (*DeletedFile, error) {
	if !store.ValidFileName(name) {
		return nil, apperr.Validation("invalid file name")
	}

	if err := s.files.Delete(ctx, name); err != nil {
		switch {
		case errors.Is(err, store.ErrFileNotFound):
			return nil, apperr.NotFound("file not found")
		case errors.Is(err, store.ErrInvalidFileName):
			return nil, apperr.Validation("invalid file name")
		}
		s.logger.Error("Failed to delete file", zap.String("name", name), zap.Error(err))
		return nil, apperr.Internal("failed to delete file", err)
	}

	s.logger.Info("File deleted", zap.String("name", name))
	return &DeletedFile{FileName: name}, nil
}

// List returns one page of stored files sorted by name
func (s *FileService) List(ctx context.Context, page, size string) (*Page[FileEntry], error) {
	p, err := ParsePagination(page, size)
	if err != nil {
		return nil, err
	}

	files, err := s.files.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list files", zap.Error(err))
		return nil, apperr.Internal("failed to list files", err)
	}

	start := p.Offset()
	if start < 0 || start > len(files) {
		start = len(files)
	}
	end := start + p.Size
	if end > len(files) {
		end = len(files)
	}

	entries := make([]FileEntry, 0, end-start)
	for _, f := range files[start:end] {
		entries = append(entries, FileEntry{
			Name:       f.Name,
			URL:        PublicPrefix + f.Name,
			Size:       f.Size,
			Mimetype:   TypeByExtension(f.Name),
			CreateTime: f.ModTime,
		})
	}

	return &Page[FileEntry]{
		List:  entries,
		Total: int64(len(files)),
		Page:  p.Page,
		Size:  p.Size,
	}, nil
}

func (s *FileService) tooLarge(size int64) error {
	limit := megabytes(s.maxSize)
	if size < 0 {
		return apperr.Validation("file exceeds the upload limit (%s)", limit)
	}
	return apperr.Validation("file exceeds the upload limit (%s), current size: %s", limit, megabytes(size))
}

func megabytes(n int64) string {
	const mb = 1024 * 1024
	if n%mb == 0 {
		return fmt.Sprintf("%dMB", n/mb)
	}
	return fmt.Sprintf("%.2fMB", float64(n)/mb)
}

func normalizeType(t string) string {
	if t == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(t)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(t))
	}
	return mediaType
}

func allowed(t string) bool {
	for _, a := range AllowedTypes {
		if a == t {
			return true
		}
	}
	return false
}
