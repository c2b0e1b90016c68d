package database

import (
	"context"

	"github.com/rpupo63/portfolio-backend/models"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

const projectOrder = "sort_order ASC, project_year DESC, id DESC"

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// ListActive returns every active project in display order.
func (r *ProjectRepo) ListActive(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order(projectOrder).
		Find(&projects).Error
	return projects, err
}

// ListActivePage returns one page of active projects and the total count.
func (r *ProjectRepo) ListActivePage(ctx context.Context, page models.PageRequest) ([]models.Project, int64, error) {
	var (
		projects []models.Project
		total    int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&models.Project{}).Where("is_active = ?", true).Count(&total).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).
			Where("is_active = ?", true).
			Order(projectOrder).
			Limit(page.Limit).
			Offset(page.Offset()).
			Find(&projects).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

// ListAll includes inactive rows. Reads go to the primary so the admin sees its own writes.
func (r *ProjectRepo) ListAll(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.WithContext(ctx).Clauses(dbresolver.Write).Order(projectOrder).Find(&projects).Error
	return projects, err
}

// FindActive returns an active project or gorm.ErrRecordNotFound.
func (r *ProjectRepo) FindActive(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).Where("is_active = ?", true).First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Create inserts a new project and sets its ID.
func (r *ProjectRepo) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// Replace overwrites every writable column of the project with id.
func (r *ProjectRepo) Replace(ctx context.Context, id uint, project *models.Project) error {
	res := r.db.WithContext(ctx).
		Model(&models.Project{ID: id}).
		Select(models.ProjectColumns).
		Updates(project)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	project.ID = id
	return nil
}

// Delete removes a project; deleting a missing id is not an error.
func (r *ProjectRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Project{}, id).Error
}
