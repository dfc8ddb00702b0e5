package database

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/devfolio/projects-api/models"
)

func Migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "20240301_create_projects_tags_descriptions",
			Migrate: func(tx *gorm.DB) error {
				if err := setupJoinTables(tx); err != nil {
					return err
				}
				return tx.AutoMigrate(&models.Tag{}, &models.Project{}, &models.Description{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("project_tags", "descriptions", "projects", "tags")
			},
		},
	}
}

// Migrate applies every pending migration.
func Migrate(db *gorm.DB) error {
	if err := setupJoinTables(db); err != nil {
		return err
	}
	return gormigrate.New(db, gormigrate.DefaultOptions, Migrations()).Migrate()
}

// setupJoinTables makes both sides of the project/tag relation use the ProjectTag row type.
func setupJoinTables(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Project{}, "Tags", &models.ProjectTag{}); err != nil {
		return err
	}
	return db.SetupJoinTable(&models.Tag{}, "Projects", &models.ProjectTag{})
}
