package api

import (
	"net/http"
	"strings"

	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type blogPostHandler struct {
	responder Responder
	logger    zerolog.Logger
	posts     BlogPostStore
}

func newBlogPostHandler(posts BlogPostStore) blogPostHandler {
	logger := log.With().Str("handlerName", "blogPostHandler").Logger()

	return blogPostHandler{
		responder: NewResponder(logger),
		logger:    logger,
		posts:     posts,
	}
}

// listPublicBlogPosts returns active posts, newest first
// @Summary List public blog posts
// @Tags Blog
// @Produce json
// @Param category query string false "Only posts in this category (case-insensitive)"
// @Router /api/public/blogs [get]
func (h blogPostHandler) listPublicBlogPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := strings.TrimSpace(r.URL.Query().Get("category"))
		posts, err := h.posts.ListActive(r.Context(), category)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list", "blog posts", err))
			return
		}
		h.responder.WriteJSON(w, envelope{"blogs": models.NewBlogPostViews(posts)})
	}
}

// getPublicBlogPost returns one active post with its markdown rendered.
func (h blogPostHandler) getPublicBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.posts.FindActive(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "blog post", err))
			return
		}

		view := models.NewBlogPostView(*post)
		if html, err := services.RenderMarkdown(post.Content); err != nil {
			h.logger.Warn().Err(err).Uint("blogPostId", post.ID).Msg("Failed to render markdown")
		} else {
			view.ContentHTML = html
		}
		h.responder.WriteJSON(w, envelope{"blog": view})
	}
}

func (h blogPostHandler) listBlogPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, _ := parsePage(r, resourcePageLimits)
		posts, total, err := h.posts.ListPage(r.Context(), page)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list", "blog posts", err))
			return
		}
		h.responder.WriteJSON(w, envelope{
			"blogs":      models.NewBlogPostViews(posts),
			"pagination": models.NewPagination(page, total),
		})
	}
}

func (h blogPostHandler) getBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.posts.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "blog post", err))
			return
		}
		h.responder.WriteJSON(w, envelope{"blog": models.NewBlogPostView(*post)})
	}
}

func (h blogPostHandler) createBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input models.BlogPostInput
		if err := decodeJSON(r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := input.Apply()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.posts.Create(r.Context(), &post); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "blog post", err))
			return
		}

		h.logger.Info().Uint("blogPostId", post.ID).Str("title", post.Title).Msg("Blog post created")
		h.responder.WriteJSON(w, envelope{"id": post.ID})
	}
}

func (h blogPostHandler) updateBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input models.BlogPostInput
		if err := decodeJSON(r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := input.Apply()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.posts.Replace(r.Context(), id, &post); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "blog post", err))
			return
		}
		h.responder.WriteJSON(w, envelope{"id": id})
	}
}

func (h blogPostHandler) deleteBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.posts.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "blog post", err))
			return
		}
		h.responder.WriteJSON(w, nil)
	}
}
