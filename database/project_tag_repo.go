package database

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/devfolio/projects-api/errs"
	"github.com/devfolio/projects-api/models"
)

type ProjectTagRepo struct {
	db *gorm.DB
}

func NewProjectTagRepo(db *gorm.DB) *ProjectTagRepo {
	return &ProjectTagRepo{db}
}

// FindByProject returns the association rows of one project
func (r *ProjectTagRepo) FindByProject(ctx context.Context, projectID uint) ([]*models.ProjectTag, error) {
	var rows []*models.ProjectTag
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("tag_id").Find(&rows).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "project tags", err)
	}
	return rows, nil
}

// Link associates a project with each tag. Existing pairs are left alone.
func (r *ProjectTagRepo) Link(ctx context.Context, projectID uint, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]models.ProjectTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		rows = append(rows, models.ProjectTag{ProjectID: projectID, TagID: id})
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		return errs.NewDatabaseError("link", "project tags", err)
	}
	return nil
}

// UnlinkProject removes every tag association of a project
func (r *ProjectTagRepo) UnlinkProject(ctx context.Context, projectID uint) error {
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&models.ProjectTag{}).Error
	if err != nil {
		return errs.NewDatabaseError("unlink", "project tags", err)
	}
	return nil
}

// UnlinkTag removes every project association of a tag
func (r *ProjectTagRepo) UnlinkTag(ctx context.Context, tagID uint) error {
	err := r.db.WithContext(ctx).Where("tag_id = ?", tagID).Delete(&models.ProjectTag{}).Error
	if err != nil {
		return errs.NewDatabaseError("unlink", "project tags", err)
	}
	return nil
}
