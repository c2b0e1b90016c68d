package models

import (
	"time"

	"github.com/rpupo63/portfolio-backend/errs"
)

// Categories the admin UI offers. The column itself is an open string.
var KnownBlogCategories = []string{"Engineering", "Tutorial", "Career", "Opinion", "News"}

const (
	BlogTitleMax    = 200
	BlogExcerptMax  = 1000
	BlogCategoryMax = 80
	BlogReadTimeMax = 40
)

// BlogPost represents a stored blog post
type BlogPost struct {
	ID        uint   `gorm:"primaryKey"`
	Title     string `gorm:"type:varchar(200);not null"`
	Excerpt   string `gorm:"type:text;not null"`
	Content   string `gorm:"type:text;not null"`
	Category  string `gorm:"type:varchar(80);not null"`
	ReadTime  string `gorm:"type:varchar(40);not null"`
	Featured  bool   `gorm:"not null"`
	IsActive  bool   `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

var BlogPostColumns = []string{"title", "excerpt", "content", "category", "read_time", "featured", "is_active"}

type BlogPostView struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"contentHtml,omitempty"`
	Category    string    `json:"category"`
	ReadTime    string    `json:"readTime"`
	Featured    bool      `json:"featured"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewBlogPostView(p BlogPost) BlogPostView {
	return BlogPostView{
		ID:        p.ID,
		Title:     p.Title,
		Excerpt:   p.Excerpt,
		Content:   p.Content,
		Category:  p.Category,
		ReadTime:  p.ReadTime,
		Featured:  p.Featured,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func NewBlogPostViews(posts []BlogPost) []BlogPostView {
	views := make([]BlogPostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, NewBlogPostView(p))
	}
	return views
}

type BlogPostInput struct {
	Title    string      `json:"title"`
	Excerpt  string      `json:"excerpt"`
	Content  string      `json:"content"`
	Category string      `json:"category"`
	ReadTime LooseString `json:"readTime"`
	Featured Truthy      `json:"featured"`
	IsActive Truthy      `json:"isActive"`
}

func (in BlogPostInput) Apply() (BlogPost, error) {
	title := Clip(in.Title, BlogTitleMax)
	if title == "" {
		return BlogPost{}, errs.NewValidationError("title", "Title is required.")
	}
	return BlogPost{
		Title:    title,
		Excerpt:  Clip(in.Excerpt, BlogExcerptMax),
		Content:  in.Content,
		Category: Clip(in.Category, BlogCategoryMax),
		ReadTime: Clip(string(in.ReadTime), BlogReadTimeMax),
		Featured: in.Featured.Or(false),
		IsActive: in.IsActive.Or(true),
	}, nil
}
