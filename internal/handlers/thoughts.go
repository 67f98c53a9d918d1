// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers wires the HTTP surface to the generation pipeline and
// the post store. Validation failures map to 400; provider, parse, and
// store failures map to 500. The rendered post list is served from the
// Valkey cache when present and re-rendered on miss.
package handlers

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"thoughtpress/internal/cache"
	"thoughtpress/internal/compose"
	"thoughtpress/internal/markdown"
	"thoughtpress/internal/models"
	"thoughtpress/internal/render"
)

// PostStore is the subset of the post store these handlers use.
// *store.PostStore satisfies it (asserted in the package tests).
type PostStore interface {
	Add(ctx context.Context, post models.BlogPost) (models.StoredPost, error)
	ListAll(ctx context.Context) ([]models.StoredPost, error)
	Count(ctx context.Context) (int, error)
}

// Thoughts groups the handlers for the thought submission flow and the
// public post list. listCache may be nil when Valkey is not configured.
type Thoughts struct {
	renderer  *render.Renderer
	composer  *compose.Composer
	posts     PostStore
	listCache *cache.ListCache
}

// NewThoughts creates a new Thoughts handler group.
func NewThoughts(renderer *render.Renderer, composer *compose.Composer, posts PostStore, listCache *cache.ListCache) *Thoughts {
	return &Thoughts{
		renderer:  renderer,
		composer:  composer,
		posts:     posts,
		listCache: listCache,
	}
}

// postView is the shape templates receive for a single post. Content is
// already-rendered HTML from the markdown converter.
type postView struct {
	Title     string
	Content   template.HTML
	Tags      []string
	CreatedAt string
}

func viewOf(p models.StoredPost) postView {
	html, err := markdown.ToHTML(p.Content)
	if err != nil {
		// A post that fails Markdown conversion still shows up, unformatted.
		slog.Warn("markdown render failed", "post_id", p.ID, "error", err)
		html = template.HTMLEscapeString(p.Content)
	}
	return postView{
		Title:     p.Title,
		Content:   template.HTML(html),
		Tags:      p.Tags,
		CreatedAt: p.CreatedAtRFC3339(),
	}
}

// SubmitForm renders the empty thought submission form.
func (h *Thoughts) SubmitForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Page(w, http.StatusOK, "submit", &render.PageData{
		Title: "Submit a Thought",
		Data:  map[string]any{},
	})
}

// Submit accepts a thought, runs the generation pipeline, stores the
// resulting post, and renders it back to the user. Each submission of the
// same thought creates a new post.
func (h *Thoughts) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	thought := r.FormValue("thought")

	idea, err := models.ValidateIdea(thought)
	if err != nil {
		h.renderer.Page(w, http.StatusBadRequest, "submit", &render.PageData{
			Title: "Submit a Thought",
			Error: err.Error(),
			Data:  map[string]any{"Thought": thought},
		})
		return
	}

	post, err := h.composer.Compose(ctx, idea)
	if err != nil {
		// Schema violations in the generated fields are client-visible
		// validation errors; everything else is a server-side failure.
		var fieldErr *models.FieldError
		if errors.As(err, &fieldErr) {
			slog.Warn("generated post rejected", "error", err)
			h.renderer.Page(w, http.StatusBadRequest, "submit", &render.PageData{
				Title: "Submit a Thought",
				Error: "The generated post was incomplete (" + fieldErr.Error() + "). Please try again.",
				Data:  map[string]any{"Thought": thought},
			})
			return
		}

		slog.Error("post generation failed", "error", err)
		h.renderer.Page(w, http.StatusInternalServerError, "submit", &render.PageData{
			Title: "Submit a Thought",
			Error: "Generating your post failed. Please try again later.",
			Data:  map[string]any{"Thought": thought},
		})
		return
	}

	stored, err := h.posts.Add(ctx, post)
	if err != nil {
		slog.Error("store post failed", "error", err)
		h.renderer.Page(w, http.StatusInternalServerError, "submit", &render.PageData{
			Title: "Submit a Thought",
			Error: "Your post was generated but could not be saved. Please try again later.",
			Data:  map[string]any{"Thought": thought},
		})
		return
	}

	if h.listCache != nil {
		h.listCache.Invalidate(ctx, cache.PostListKey())
	}

	// The success banner shows the running total. A failed count only
	// costs the banner detail, never the submission.
	total, err := h.posts.Count(ctx)
	if err != nil {
		slog.Warn("count posts failed", "error", err)
		total = 0
	}

	h.renderer.Page(w, http.StatusOK, "submit", &render.PageData{
		Title: "Submit a Thought",
		Data:  map[string]any{"Post": viewOf(stored), "Total": total},
	})
}

// ListPosts renders every stored post, oldest first. The rendered HTML is
// cached in Valkey and reused until the next successful submission.
func (h *Thoughts) ListPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.listCache != nil {
		if cached, ok := h.listCache.Get(ctx, cache.PostListKey()); ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(cached)
			return
		}
	}

	posts, err := h.posts.ListAll(ctx)
	if err != nil {
		slog.Error("list posts failed", "error", err)
		h.renderer.Page(w, http.StatusInternalServerError, "post_list", &render.PageData{
			Title: "Blog",
			Error: "Loading posts failed. Please try again later.",
			Data:  map[string]any{},
		})
		return
	}

	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		views = append(views, viewOf(p))
	}

	body, err := h.renderer.PageBytes("post_list", &render.PageData{
		Title: "Blog",
		Data:  map[string]any{"Posts": views},
	})
	if err != nil {
		slog.Error("render post list failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if h.listCache != nil {
		h.listCache.Set(ctx, cache.PostListKey(), body)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(body)
}
