package database

import (
	"context"

	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// AdminRepo always reads from the primary; credentials must never lag.
type AdminRepo struct {
	db *gorm.DB
}

func NewAdminRepo(db *gorm.DB) *AdminRepo {
	return &AdminRepo{db}
}

func (r *AdminRepo) primary(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Clauses(dbresolver.Write)
}

func (r *AdminRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.primary(ctx).Model(&models.Admin{}).Count(&n).Error
	return n, err
}

func (r *AdminRepo) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.primary(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepo) FindByID(ctx context.Context, id uint) (*models.Admin, error) {
	var admin models.Admin
	if err := r.primary(ctx).First(&admin, id).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// Create inserts an admin. A duplicate username surfaces as gorm.ErrDuplicatedKey.
func (r *AdminRepo) Create(ctx context.Context, admin *models.Admin) error {
	return r.primary(ctx).Create(admin).Error
}

// UpdateCredentials writes the given username and password hash for id.
// Empty values leave the column unchanged.
func (r *AdminRepo) UpdateCredentials(ctx context.Context, id uint, username, passwordHash string) error {
	updates := map[string]any{}
	if username != "" {
		updates["username"] = username
	}
	if passwordHash != "" {
		updates["password_hash"] = passwordHash
	}
	if len(updates) == 0 {
		return nil
	}
	res := r.primary(ctx).Model(&models.Admin{ID: id}).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
