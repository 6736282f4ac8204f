package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/blog-in-go/pkg/apperr"
	"github.com/doodlesbykumbi/blog-in-go/pkg/audit"
	"github.com/doodlesbykumbi/blog-in-go/pkg/model"
	"github.com/doodlesbykumbi/blog-in-go/pkg/role"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server"
	"github.com/doodlesbykumbi/blog-in-go/pkg/service"
)

// RegisterBlogEndpoints registers the blog endpoints. Every route needs a
// session token; writes are further gated by role.
func RegisterBlogEndpoints(s *server.Server) {
	blogs := s.Blogs
	log := s.Logger.Named("BlogEndpoints")
	vip := s.Guard.RequireRole(role.VIP)
	admin := s.Guard.RequireRole(role.Admin)

	blogRouter := s.Router.PathPrefix("/blog").Subrouter()
	blogRouter.Use(s.Authenticator.Middleware)

	// GET /blog?page&size&keyword&status - Paginated listing
	blogRouter.HandleFunc("", handleListBlogs(blogs, log)).Methods("GET")

	// POST /blog - Create a blog (VIP and above)
	blogRouter.Handle("", vip(handleCreateBlog(blogs, log))).Methods("POST")

	// GET /blog/{id}?render=html - One blog
	blogRouter.HandleFunc("/{id}", handleGetBlog(blogs, log)).Methods("GET")

	// PUT /blog/{id} - Partial update by the author or an administrator
	blogRouter.HandleFunc("/{id}", handleUpdateBlog(blogs, log)).Methods("PUT")

	// DELETE /blog/{id} - Delete (Admin and above)
	blogRouter.Handle("/{id}", admin(handleDeleteBlog(blogs, log))).Methods("DELETE")

	// PUT /blog/{id}/status?status= - Change status (Admin and above)
	blogRouter.Handle("/{id}/status", admin(handleSetBlogStatus(blogs, log))).Methods("PUT")
}

func handleListBlogs(blogs *service.BlogService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, err := blogs.List(r.Context(), service.ListBlogsQuery{
			Page:    q.Get("page"),
			Size:    q.Get("size"),
			Keyword: q.Get("keyword"),
			Status:  q.Get("status"),
		})
		if err != nil {
			respondWithError(w, log, err)
			return
		}
		respondWithJSON(w, http.StatusOK, "blog list retrieved", page)
	}
}

func handleGetBlog(blogs *service.BlogService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		renderHTML := r.URL.Query().Get("render") == "html"

		view, err := blogs.Get(r.Context(), id, renderHTML)
		if err != nil {
			respondWithError(w, log, err)
			return
		}
		respondWithJSON(w, http.StatusOK, "blog retrieved", view)
	}
}

func handleCreateBlog(blogs *service.BlogService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorID, err := callerID(r)
		if err != nil {
			respondWithError(w, log, err)
			return
		}

		var in service.CreateBlogInput
		if err := decodeJSON(w, r, &in); err != nil {
			respondWithError(w, log, err)
			return
		}

		blog, err := blogs.Create(r.Context(), authorID, in)
		auditBlog(r, authorID, audit.BlogCreate, blogID(blog), err)
		if err != nil {
			respondWithError(w, log, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, "blog created", blog)
	}
}

func handleUpdateBlog(blogs *service.BlogService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			respondWithError(w, log, err)
			return
		}

		var in service.UpdateBlogInput
		if err := decodeJSON(w, r, &in); err != nil {
			respondWithError(w, log, err)
			return
		}

		blog, err := blogs.Update(r.Context(), userID, mux.Vars(r)["id"], in)
		auditBlog(r, userID, audit.BlogUpdate, mux.Vars(r)["id"], err)
		if err != nil {
			respondWithError(w, log, err)
			return
		}
		respondWithJSON(w, http.StatusOK, "blog updated", blog)
	}
}

func handleDeleteBlog(blogs *service.BlogService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleted, err := blogs.Delete(r.Context(), mux.Vars(r)["id"])
		auditBlog(r, callerIDOrEmpty(r), audit.BlogDelete, mux.Vars(r)["id"], err)
		if err != nil {
			respondWithError(w, log, err)
			return
		}
		respondWithJSON(w, http.StatusOK, "blog deleted", deleted)
	}
}

func handleSetBlogStatus(blogs *service.BlogService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		change, err := blogs.SetStatus(r.Context(), mux.Vars(r)["id"], r.URL.Query().Get("status"))
		auditBlog(r, callerIDOrEmpty(r), audit.BlogStatus, mux.Vars(r)["id"], err)
		if err != nil {
			respondWithError(w, log, err)
			return
		}
		respondWithJSON(w, http.StatusOK, change.Message, change)
	}
}

// auditBlog records the outcome of a blog write
func auditBlog(r *http.Request, userID, operation, id string, err error) {
	event := audit.BlogEvent{
		UserID:    userID,
		ClientIP:  clientIP(r),
		BlogID:    id,
		Operation: operation,
		Success:   err == nil,
	}
	if err != nil {
		event.ErrorMessage = apperr.PublicMessage(err)
	}
	audit.Log(event)
}

func blogID(b *model.Blog) string {
	if b == nil {
		return ""
	}
	return b.ID
}
