package database

import (
	"context"

	"gorm.io/gorm"
)

type Database struct {
	db              *gorm.DB
	projectRepo     *ProjectRepo
	tagRepo         *TagRepo
	projectTagRepo  *ProjectTagRepo
	descriptionRepo *DescriptionRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:              db,
		projectRepo:     NewProjectRepo(db),
		tagRepo:         NewTagRepo(db),
		projectTagRepo:  NewProjectTagRepo(db),
		descriptionRepo: NewDescriptionRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

func (d Database) ProjectTagRepo() *ProjectTagRepo {
	return d.projectTagRepo
}

func (d Database) DescriptionRepo() *DescriptionRepo {
	return d.descriptionRepo
}

// Transaction runs fn against repositories bound to a single transaction. The transaction is
// committed when fn returns nil and rolled back otherwise.
func (d Database) Transaction(ctx context.Context, fn func(tx Database) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// Ping checks that the primary connection is alive.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
