package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/devfolio/projects-api/errs"
	"github.com/devfolio/projects-api/models"
)

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

// FindOrCreate returns the tag with exactly this name, inserting it when missing.
// An insert that loses a race against another writer falls back to that writer's row.
func (r *TagRepo) FindOrCreate(ctx context.Context, name string) (*models.Tag, error) {
	db := r.db.WithContext(ctx)

	var tag models.Tag
	err := db.Where("name = ?", name).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewDatabaseError("find", "tag", err)
	}

	tag = models.Tag{Name: name}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&tag).Error
	if err != nil {
		return nil, errs.NewDatabaseError("create", "tag", err)
	}
	if tag.ID != 0 {
		return &tag, nil
	}

	tag = models.Tag{}
	if err := db.Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "tag", err)
	}
	return &tag, nil
}

func (r *TagRepo) FindByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).First(&tag, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("tag")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "tag", err)
	}
	return &tag, nil
}

// FindByName looks a tag up by its exact name.
func (r *TagRepo) FindByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("tag")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "tag", err)
	}
	return &tag, nil
}

// FindMatching returns every tag whose name matches the URL-friendly query.
func (r *TagRepo) FindMatching(ctx context.Context, query string) ([]*models.Tag, error) {
	var candidates []*models.Tag
	err := r.db.WithContext(ctx).
		Where("name LIKE ? ESCAPE ?", models.LikePattern(query), `\`).
		Order("id").
		Find(&candidates).Error
	if err != nil {
		return nil, errs.NewDatabaseError("find", "tags", err)
	}
	matched := make([]*models.Tag, 0, len(candidates))
	for _, t := range candidates {
		if models.MatchesName(t.Name, query) {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

// FindWithProjects returns the tags linked to at least one project, each with its projects loaded.
func (r *TagRepo) FindWithProjects(ctx context.Context) ([]*models.Tag, error) {
	linked := r.db.WithContext(ctx).
		Model(&models.ProjectTag{}).
		Select("tag_id")

	var tags []*models.Tag
	err := r.db.WithContext(ctx).
		Preload("Projects", func(db *gorm.DB) *gorm.DB { return db.Order("projects.id") }).
		Where("tags.id IN (?)", linked).
		Order("tags.id").
		Find(&tags).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "tags", err)
	}
	return tags, nil
}

func (r *TagRepo) Rename(ctx context.Context, tag *models.Tag, name string) error {
	if err := r.db.WithContext(ctx).Model(tag).Update("name", name).Error; err != nil {
		return errs.NewDatabaseError("rename", "tag", err)
	}
	tag.Name = name
	return nil
}

func (r *TagRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Tag{}, id)
	if res.Error != nil {
		return errs.NewDatabaseError("delete", "tag", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("tag")
	}
	return nil
}
