package models

import (
	"math"
	"time"

	"github.com/rpupo63/portfolio-backend/errs"
	"gorm.io/datatypes"
)

const (
	ProjectTitleMax       = 200
	ProjectTagMax         = 80
	ProjectDescriptionMax = 800
	ProjectYearMax        = 10
	ProjectRoleMax        = 120
	ProjectURLMax         = 500
	ProjectListItemMax    = 500
)

// Project is the stored row. Defaults for sort_order and is_active live in
// the migration so that an explicit false or 0 is written as-is.
type Project struct {
	ID          uint                        `gorm:"primaryKey"`
	Title       string                      `gorm:"type:varchar(200);not null"`
	Tag         string                      `gorm:"type:varchar(80);not null"`
	Description string                      `gorm:"type:varchar(800);not null"`
	ProjectYear string                      `gorm:"column:project_year;type:varchar(10);not null"`
	Role        string                      `gorm:"type:varchar(120);not null"`
	Tech        datatypes.JSONSlice[string] `gorm:"type:jsonb;not null"`
	Details     datatypes.JSONSlice[string] `gorm:"type:jsonb;not null"`
	LiveURL     string                      `gorm:"column:live_url;type:varchar(500);not null"`
	RepoURL     string                      `gorm:"column:repo_url;type:varchar(500);not null"`
	SortOrder   int                         `gorm:"not null"`
	IsActive    bool                        `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProjectColumns are overwritten by a full update.
var ProjectColumns = []string{
	"title", "tag", "description", "project_year", "role", "tech", "details",
	"live_url", "repo_url", "sort_order", "is_active",
}

// ProjectView is the wire shape of a project.
type ProjectView struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Tag       string    `json:"tag"`
	Desc      string    `json:"desc"`
	Year      string    `json:"year"`
	Role      string    `json:"role"`
	Tech      []string  `json:"tech"`
	Details   []string  `json:"details"`
	Live      string    `json:"live"`
	Repo      string    `json:"repo"`
	SortOrder int       `json:"sortOrder"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewProjectView(p Project) ProjectView {
	tech := []string(p.Tech)
	if tech == nil {
		tech = []string{}
	}
	details := []string(p.Details)
	if details == nil {
		details = []string{}
	}
	return ProjectView{
		ID:        p.ID,
		Title:     p.Title,
		Tag:       p.Tag,
		Desc:      p.Description,
		Year:      p.ProjectYear,
		Role:      p.Role,
		Tech:      tech,
		Details:   details,
		Live:      p.LiveURL,
		Repo:      p.RepoURL,
		SortOrder: p.SortOrder,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func NewProjectViews(projects []Project) []ProjectView {
	views := make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, NewProjectView(p))
	}
	return views
}

// ProjectInput is the body of a create or update request.
type ProjectInput struct {
	Title     string      `json:"title"`
	Tag       string      `json:"tag"`
	Desc      string      `json:"desc"`
	Year      LooseString `json:"year"`
	Role      string      `json:"role"`
	Tech      TechList    `json:"tech"`
	Details   DetailList  `json:"details"`
	Live      string      `json:"live"`
	Repo      string      `json:"repo"`
	SortOrder LooseInt    `json:"sortOrder"`
	IsActive  Truthy      `json:"isActive"`
}

// Apply validates the input and returns the row it describes. Every
// writable column is set, so the result is suitable for a full overwrite.
func (in ProjectInput) Apply() (Project, error) {
	title := Clip(in.Title, ProjectTitleMax)
	if title == "" {
		return Project{}, errs.NewValidationError("title", "Title is required.")
	}
	sortOrder := in.SortOrder.Or(0)
	if sortOrder < math.MinInt32 || sortOrder > math.MaxInt32 {
		return Project{}, errs.NewInvalidFieldError("sortOrder", "out of range")
	}

	return Project{
		Title:       title,
		Tag:         Clip(in.Tag, ProjectTagMax),
		Description: Clip(in.Desc, ProjectDescriptionMax),
		ProjectYear: Clip(string(in.Year), ProjectYearMax),
		Role:        Clip(in.Role, ProjectRoleMax),
		Tech:        datatypes.JSONSlice[string](clipAll(in.Tech, ProjectListItemMax)),
		Details:     datatypes.JSONSlice[string](clipAll(in.Details, ProjectListItemMax)),
		LiveURL:     Clip(in.Live, ProjectURLMax),
		RepoURL:     Clip(in.Repo, ProjectURLMax),
		SortOrder:   sortOrder,
		IsActive:    in.IsActive.Or(true),
	}, nil
}
