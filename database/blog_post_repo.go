package database

import (
	"context"

	"github.com/rpupo63/portfolio-backend/models"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

const blogPostOrder = "created_at DESC, id DESC"

type BlogPostRepo struct {
	db *gorm.DB
}

func NewBlogPostRepo(db *gorm.DB) *BlogPostRepo {
	return &BlogPostRepo{db}
}

// ListActive returns active posts, newest first, optionally narrowed to one category.
func (r *BlogPostRepo) ListActive(ctx context.Context, category string) ([]models.BlogPost, error) {
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if category != "" {
		q = q.Where("LOWER(category) = LOWER(?)", category)
	}
	var posts []models.BlogPost
	err := q.Order(blogPostOrder).Find(&posts).Error
	return posts, err
}

// FindActive returns an active post or gorm.ErrRecordNotFound.
func (r *BlogPostRepo) FindActive(ctx context.Context, id uint) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPage returns one page of all posts, including inactive ones.
func (r *BlogPostRepo) ListPage(ctx context.Context, page models.PageRequest) ([]models.BlogPost, int64, error) {
	var (
		posts []models.BlogPost
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.WithContext(gctx).Clauses(dbresolver.Write).Model(&models.BlogPost{}).Count(&total).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).Clauses(dbresolver.Write).
			Order(blogPostOrder).
			Limit(page.Limit).
			Offset(page.Offset()).
			Find(&posts).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// FindByID returns a post regardless of its active flag.
func (r *BlogPostRepo) FindByID(ctx context.Context, id uint) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := r.db.WithContext(ctx).Clauses(dbresolver.Write).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *BlogPostRepo) Create(ctx context.Context, post *models.BlogPost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// Replace overwrites every writable column of the post with id.
func (r *BlogPostRepo) Replace(ctx context.Context, id uint, post *models.BlogPost) error {
	res := r.db.WithContext(ctx).
		Model(&models.BlogPost{ID: id}).
		Select(models.BlogPostColumns).
		Updates(post)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	post.ID = id
	return nil
}

func (r *BlogPostRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.BlogPost{}, id).Error
}
