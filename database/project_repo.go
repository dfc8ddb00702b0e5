package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/devfolio/projects-api/errs"
	"github.com/devfolio/projects-api/models"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// withRelations preloads tags and descriptions in insertion order.
func (r *ProjectRepo) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id") }).
		Preload("Descriptions", func(db *gorm.DB) *gorm.DB { return db.Order("descriptions.id") })
}

// FindAll returns all projects from the database
func (r *ProjectRepo) FindAll(ctx context.Context) ([]*models.Project, error) {
	var projects []*models.Project
	if err := r.withRelations(ctx).Order("projects.id").Find(&projects).Error; err != nil {
		return nil, errs.NewDatabaseError("list", "projects", err)
	}
	return projects, nil
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := r.withRelations(ctx).First(&project, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("project")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	return &project, nil
}

// FindByTitle returns the first project, by id, whose title matches the URL-friendly query.
func (r *ProjectRepo) FindByTitle(ctx context.Context, query string) (*models.Project, error) {
	var candidates []*models.Project
	err := r.withRelations(ctx).
		Where("projects.title LIKE ? ESCAPE ?", models.LikePattern(query), `\`).
		Order("projects.id").
		Find(&candidates).Error
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	for _, p := range candidates {
		if models.MatchesName(p.Title, query) {
			return p, nil
		}
	}
	return nil, errs.NewNotFound("project")
}

// FindByTagIDs returns every project linked to at least one of the given tags.
func (r *ProjectRepo) FindByTagIDs(ctx context.Context, tagIDs []uint) ([]*models.Project, error) {
	if len(tagIDs) == 0 {
		return []*models.Project{}, nil
	}
	linked := r.db.WithContext(ctx).
		Model(&models.ProjectTag{}).
		Select("project_id").
		Where("tag_id IN ?", tagIDs)

	var projects []*models.Project
	err := r.withRelations(ctx).
		Where("projects.id IN (?)", linked).
		Order("projects.id").
		Find(&projects).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "projects", err)
	}
	return projects, nil
}

// Add inserts a new project row. Associations are written separately.
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(project).Error; err != nil {
		return errs.NewDatabaseError("create", "project", err)
	}
	return nil
}

// UpdateColumns overwrites the given scalar columns of a project.
func (r *ProjectRepo) UpdateColumns(ctx context.Context, id uint, columns map[string]any) error {
	if len(columns) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Model(&models.Project{ID: id}).
		Omit(clause.Associations).
		Updates(columns).Error
	if err != nil {
		return errs.NewDatabaseError("update", "project", err)
	}
	return nil
}

// Delete removes a project from the database by id
func (r *ProjectRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Project{}, id)
	if res.Error != nil {
		return errs.NewDatabaseError("delete", "project", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("project")
	}
	return nil
}
