package api

import (
	"errors"
	"net/http"

	"github.com/dgallion1/blogd/internal/posts"
	"github.com/dgallion1/blogd/internal/render"
	"github.com/dgallion1/blogd/internal/view"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// handleIndex lists the latest posts. While the site is unlaunched it is only
// visible with ?preview=1.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.cfg.IndexPreviewOnly && r.URL.Query().Get("preview") != "1" {
		htmlStatus(w, http.StatusNotFound)
		return
	}

	latest, err := s.store.Latest(r.Context(), s.cfg.LatestPosts)
	if err != nil {
		s.log.Error("list posts", "error", err)
		htmlStatus(w, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.pages.Index(w, latest); err != nil {
		s.log.Error("render index page", "error", err)
		htmlStatus(w, http.StatusInternalServerError)
	}
}

func (s *Server) handlePostPage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "postID"))
	if err != nil {
		htmlStatus(w, http.StatusNotFound)
		return
	}

	post, err := s.store.Get(r.Context(), id)
	if errors.Is(err, posts.ErrNotFound) {
		htmlStatus(w, http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("load post", "post_id", id, "error", err)
		htmlStatus(w, http.StatusInternalServerError)
		return
	}

	res, err := s.renderer.Render(post.Content)
	if err != nil {
		s.log.Error("render post", "post_id", id, "error", err, "encoding", errors.Is(err, render.ErrEncoding))
		htmlStatus(w, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.pages.Post(w, view.NewSinglePost(post, res)); err != nil {
		s.log.Error("render post page", "post_id", id, "error", err)
		htmlStatus(w, http.StatusInternalServerError)
	}
}

func htmlStatus(w http.ResponseWriter, code int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
}
