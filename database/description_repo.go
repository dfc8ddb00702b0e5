package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/devfolio/projects-api/errs"
	"github.com/devfolio/projects-api/models"
)

type DescriptionRepo struct {
	db *gorm.DB
}

func NewDescriptionRepo(db *gorm.DB) *DescriptionRepo {
	return &DescriptionRepo{db}
}

// AddAll inserts one description per text, in order.
func (r *DescriptionRepo) AddAll(ctx context.Context, projectID uint, texts []string) error {
	if len(texts) == 0 {
		return nil
	}
	rows := make([]models.Description, 0, len(texts))
	for _, text := range texts {
		rows = append(rows, models.Description{ProjectID: projectID, Text: text})
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return errs.NewDatabaseError("create", "descriptions", err)
	}
	return nil
}

func (r *DescriptionRepo) DeleteByProject(ctx context.Context, projectID uint) error {
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&models.Description{}).Error
	if err != nil {
		return errs.NewDatabaseError("delete", "descriptions", err)
	}
	return nil
}
