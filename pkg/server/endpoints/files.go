package endpoints

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/blog-in-go/pkg/apperr"
	"github.com/doodlesbykumbi/blog-in-go/pkg/audit"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server/respond"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server/store"
	"github.com/doodlesbykumbi/blog-in-go/pkg/service"
)

// uploadField is the multipart field carrying the file
const uploadField = "file"

// RegisterFileEndpoints registers the upload management endpoints
func RegisterFileEndpoints(s *server.Server) {
	files := s.Files
	log := s.Logger.Named("FileEndpoints")

	fileRouter := s.Router.PathPrefix("/file").Subrouter()
	fileRouter.Use(s.Authenticator.Middleware)

	// POST /file/upload - multipart upload, field "file"
	fileRouter.HandleFunc("/upload", handleUpload(files, s.Config.UploadTimeout, log)).Methods("POST")

	// DELETE /file/delete?fileName= - Remove a stored file
	fileRouter.HandleFunc("/delete", handleDeleteFile(files, log)).Methods("DELETE")

	// GET /file/list?page&size - Paginated listing
	fileRouter.HandleFunc("/list", handleListFiles(files, log)).Methods("GET")
}

// RegisterUploadsEndpoint serves stored files under service.PublicPrefix
func RegisterUploadsEndpoint(s *server.Server) {
	s.Router.HandleFunc(service.PublicPrefix+"{name}", handleServeUpload(s.FilesStore)).Methods("GET", "HEAD")
}

func handleUpload(files *service.FileService, timeout time.Duration, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		extendDeadlines(w, timeout, log)

		part, err := filePart(r)
		if err != nil {
			respondWithError(w, log, err)
			return
		}
		defer part.Close()

		uploaded, err := files.Save(r.Context(), service.Upload{
			OriginalName: part.FileName(),
			DeclaredType: part.Header.Get("Content-Type"),
			Size:         -1,
			Body:         part,
		})
		auditFile(r, audit.FileUpload, uploadedName(uploaded, part.FileName()), err)
		if err != nil {
			respondWithError(w, log, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, "file uploaded", uploaded)
	}
}

// extendDeadlines replaces the server read and write timeouts for the rest
// of the request. A zero timeout clears both deadlines.
func extendDeadlines(w http.ResponseWriter, timeout time.Duration, log *zap.Logger) {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	rc := http.NewResponseController(w)
	if err := rc.SetReadDeadline(deadline); err != nil && !errors.Is(err, http.ErrNotSupported) {
		log.Warn("Failed to extend upload read deadline", zap.Error(err))
	}
	if err := rc.SetWriteDeadline(deadline); err != nil && !errors.Is(err, http.ErrNotSupported) {
		log.Warn("Failed to extend upload write deadline", zap.Error(err))
	}
}

// filePart advances the multipart stream to the upload field without
// buffering the body.
func filePart(r *http.Request) (*multipart.Part, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, apperr.Validation("request must be multipart/form-data")
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, apperr.Validation("no file uploaded, expected field %q", uploadField)
		}
		if err != nil {
			return nil, apperr.Validation("malformed multipart body")
		}
		if part.FormName() == uploadField && part.FileName() != "" {
			return part, nil
		}
		_ = part.Close()
	}
}

func handleDeleteFile(files *service.FileService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("fileName")
		if name == "" {
			respondWithError(w, log, apperr.Validation("fileName is required"))
			return
		}

		deleted, err := files.Delete(r.Context(), name)
		auditFile(r, audit.FileDelete, name, err)
		if err != nil {
			respondWithError(w, log, err)
			return
		}
		respondWithJSON(w, http.StatusOK, "file deleted", deleted)
	}
}

func handleListFiles(files *service.FileService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, err := files.List(r.Context(), q.Get("page"), q.Get("size"))
		if err != nil {
			respondWithError(w, log, err)
			return
		}
		respondWithJSON(w, http.StatusOK, "file list retrieved", page)
	}
}

func handleServeUpload(filesStore store.FilesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := mux.Vars(r)["name"]
		if !store.ValidFileName(name) {
			respond.Error(w, http.StatusNotFound, "file not found")
			return
		}

		path := filepath.Join(filesStore.Root(), name)
		info, err := os.Lstat(path)
		if err != nil || !info.Mode().IsRegular() {
			respond.Error(w, http.StatusNotFound, "file not found")
			return
		}

		f, err := os.Open(path)
		if err != nil {
			respond.Error(w, http.StatusNotFound, "file not found")
			return
		}
		defer f.Close()

		w.Header().Set("Content-Type", service.TypeByExtension(name))
		http.ServeContent(w, r, name, info.ModTime(), f)
	}
}

// auditFile records the outcome of an upload or deletion
func auditFile(r *http.Request, operation, name string, err error) {
	event := audit.FileEvent{
		UserID:    callerIDOrEmpty(r),
		ClientIP:  clientIP(r),
		FileName:  name,
		Operation: operation,
		Success:   err == nil,
	}
	if err != nil {
		event.ErrorMessage = apperr.PublicMessage(err)
	}
	audit.Log(event)
}

func uploadedName(f *service.UploadedFile, original string) string {
	if f == nil {
		return original
	}
	return f.Name
}
