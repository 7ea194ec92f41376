package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dgallion1/blogd/internal/posts"
	"github.com/dgallion1/blogd/internal/render"
	"github.com/dgallion1/blogd/internal/toc"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxListLimit caps ?limit= on the listing endpoint.
const maxListLimit = 100

type createPostRequest struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	DatePublished *time.Time `json:"date_published,omitempty"`
}

type postResponse struct {
	ID            uuid.UUID   `json:"id"`
	Title         string      `json:"title"`
	DatePublished time.Time   `json:"date_published"`
	HTML          string      `json:"html"`
	TOCHTML       string      `json:"toc_html"`
	TOC           []*toc.Node `json:"toc"`
}

type renderResponse struct {
	HTML    string      `json:"html"`
	TOCHTML string      `json:"toc_html"`
	TOC     []*toc.Node `json:"toc"`
}

func (s *Server) handleLatestPosts(w http.ResponseWriter, r *http.Request) {
	limit := s.cfg.LatestPosts
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxListLimit)
	}

	latest, err := s.store.Latest(r.Context(), limit)
	if err != nil {
		s.log.Error("list posts", "error", err)
		jsonError(w, "failed to list posts", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": latest})
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	post, ok := s.loadPost(w, r)
	if !ok {
		return
	}

	res, err := s.renderer.Render(post.Content)
	if err != nil {
		s.renderFailed(w, post.ID, err)
		return
	}

	writeJSON(w, http.StatusOK, postResponse{
		ID:            post.ID,
		Title:         post.Title,
		DatePublished: post.DatePublished,
		HTML:          res.HTML,
		TOCHTML:       res.TOCHTML(),
		TOC:           res.TOC,
	})
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	// encoding/json would replace invalid UTF-8 with U+FFFD, so check first.
	if err := render.CheckUTF8("input", body); err != nil {
		s.renderFailed(w, uuid.Nil, err)
		return
	}

	var req createPostRequest
	if err := json.Unmarshal(body, &req); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return
	}

	post := posts.Post{
		ID:            req.ID,
		Title:         req.Title,
		Content:       req.Content,
		DatePublished: time.Now().UTC(),
	}
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	if req.DatePublished != nil {
		post.DatePublished = req.DatePublished.UTC()
	}

	// Render once up front so a post that cannot be rendered is never stored.
	res, err := s.renderer.Render(post.Content)
	if err != nil {
		s.renderFailed(w, post.ID, err)
		return
	}

	if err := s.store.Create(r.Context(), post); err != nil {
		switch {
		case errors.Is(err, posts.ErrInvalidPost):
			jsonError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, posts.ErrConflict):
			jsonError(w, err.Error(), http.StatusConflict)
		default:
			s.log.Error("create post", "post_id", post.ID, "error", err)
			jsonError(w, "failed to store post", http.StatusInternalServerError)
		}
		return
	}

	s.log.Info("post created", "post_id", post.ID, "headings", len(res.Headings), "toc_depth", toc.Depth(res.TOC))
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":             post.ID,
		"title":          post.Title,
		"date_published": post.DatePublished,
		"headings":       len(res.Headings),
		"url":            "/posts/" + post.ID.String(),
	})
}

// handleRender renders a raw markdown body without storing anything.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	res, err := s.renderer.Render(string(body))
	if err != nil {
		s.renderFailed(w, uuid.Nil, err)
		return
	}
	writeJSON(w, http.StatusOK, renderResponse{
		HTML:    res.HTML,
		TOCHTML: res.TOCHTML(),
		TOC:     res.TOC,
	})
}

// readBody reads the request body up to MaxBodyBytes and writes the error
// response itself when it returns false.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("body exceeds max size (%d bytes)", s.cfg.MaxBodyBytes), http.StatusRequestEntityTooLarge)
			return nil, false
		}
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return nil, false
	}
	return body, true
}

// loadPost resolves {postID} and writes the error response itself when it
// returns false.
func (s *Server) loadPost(w http.ResponseWriter, r *http.Request) (*posts.Post, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "postID"))
	if err != nil {
		jsonError(w, "post not found", http.StatusNotFound)
		return nil, false
	}

	post, err := s.store.Get(r.Context(), id)
	if errors.Is(err, posts.ErrNotFound) {
		jsonError(w, "post not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		s.log.Error("load post", "post_id", id, "error", err)
		jsonError(w, "failed to load post", http.StatusInternalServerError)
		return nil, false
	}
	return post, true
}

func (s *Server) renderFailed(w http.ResponseWriter, id uuid.UUID, err error) {
	if errors.Is(err, render.ErrEncoding) {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.log.Error("render post", "post_id", id, "error", err)
	jsonError(w, "failed to render post", http.StatusInternalServerError)
}
