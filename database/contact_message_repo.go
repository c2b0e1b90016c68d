package database

import (
	"context"

	"github.com/rpupo63/portfolio-backend/models"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

type ContactMessageRepo struct {
	db *gorm.DB
}

func NewContactMessageRepo(db *gorm.DB) *ContactMessageRepo {
	return &ContactMessageRepo{db}
}

func (r *ContactMessageRepo) Create(ctx context.Context, msg *models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListPage returns messages newest first together with the total count.
func (r *ContactMessageRepo) ListPage(ctx context.Context, page models.PageRequest) ([]models.ContactMessage, int64, error) {
	var (
		messages []models.ContactMessage
		total    int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.WithContext(gctx).Clauses(dbresolver.Write).Model(&models.ContactMessage{}).Count(&total).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).Clauses(dbresolver.Write).
			Order("created_at DESC, id DESC").
			Limit(page.Limit).
			Offset(page.Offset()).
			Find(&messages).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}
