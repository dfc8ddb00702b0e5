package database

import (
	"context"

	"github.com/devfolio/projects-api/errs"
	"github.com/devfolio/projects-api/models"
)

// ListProjects returns every project with its tags and descriptions.
func (d Database) ListProjects(ctx context.Context) ([]*models.Project, error) {
	return d.projectRepo.FindAll(ctx)
}

// FindProjectByTitle returns the first project whose title matches a URL-friendly query.
func (d Database) FindProjectByTitle(ctx context.Context, query string) (*models.Project, error) {
	return d.projectRepo.FindByTitle(ctx, query)
}

// FindProjectsByTag returns the projects carrying any tag that matches a URL-friendly query.
func (d Database) FindProjectsByTag(ctx context.Context, query string) ([]*models.Project, error) {
	tags, err := d.tagRepo.FindMatching(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, errs.NewNotFoundError("no tags found with the specified name")
	}

	ids := make([]uint, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	projects, err := d.projectRepo.FindByTagIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, errs.NewNotFoundError("no projects found with the specified tag")
	}
	return projects, nil
}

// TagsWithProjects returns every tag that is linked to at least one project.
func (d Database) TagsWithProjects(ctx context.Context) ([]*models.Tag, error) {
	tags, err := d.tagRepo.FindWithProjects(ctx)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, errs.NewNotFoundError("no tags with projects found")
	}
	return tags, nil
}

// CreateProject inserts a project together with its tags and descriptions as one unit.
func (d Database) CreateProject(ctx context.Context, in models.ProjectInput) (*models.Project, error) {
	if in.Title == "" {
		return nil, errs.NewMissingRequiredFieldError("title")
	}
	if in.Overview == "" {
		return nil, errs.NewMissingRequiredFieldError("overview")
	}

	var created *models.Project
	err := d.Transaction(ctx, func(tx Database) error {
		project := models.Project{
			Title:      in.Title,
			Overview:   in.Overview,
			GithubLink: in.GithubLink,
			StartDate:  in.StartDate,
			EndDate:    in.EndDate,
		}
		if err := tx.projectRepo.Add(ctx, &project); err != nil {
			return err
		}
		if err := tx.attachTags(ctx, project.ID, in.Tags); err != nil {
			return err
		}
		if err := tx.descriptionRepo.AddAll(ctx, project.ID, in.Descriptions); err != nil {
			return err
		}

		var err error
		created, err = tx.projectRepo.FindByID(ctx, project.ID)
		return err
	})
	if err != nil {
		return nil, errs.NewTransactionFailedError("create project", err)
	}
	return created, nil
}

// UpdateProject applies a sparse patch. Tags and descriptions, when present, replace the
// existing sets entirely.
func (d Database) UpdateProject(ctx context.Context, id uint, patch models.ProjectPatch) (*models.Project, error) {
	var updated *models.Project
	err := d.Transaction(ctx, func(tx Database) error {
		if _, err := tx.projectRepo.FindByID(ctx, id); err != nil {
			return err
		}
		if patch.IsEmpty() {
			return errs.NewEmptyUpdateError("project")
		}

		if err := tx.projectRepo.UpdateColumns(ctx, id, patch.Columns()); err != nil {
			return err
		}
		if patch.Tags != nil {
			if err := tx.projectTagRepo.UnlinkProject(ctx, id); err != nil {
				return err
			}
			if err := tx.attachTags(ctx, id, *patch.Tags); err != nil {
				return err
			}
		}
		if patch.Descriptions != nil {
			if err := tx.descriptionRepo.DeleteByProject(ctx, id); err != nil {
				return err
			}
			if err := tx.descriptionRepo.AddAll(ctx, id, *patch.Descriptions); err != nil {
				return err
			}
		}

		var err error
		updated, err = tx.projectRepo.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, errs.NewTransactionFailedError("update project", err)
	}
	return updated, nil
}

// DeleteProject removes a project, its descriptions and its tag associations. Tags are kept.
func (d Database) DeleteProject(ctx context.Context, id uint) error {
	err := d.Transaction(ctx, func(tx Database) error {
		if _, err := tx.projectRepo.FindByID(ctx, id); err != nil {
			return err
		}
		if err := tx.projectTagRepo.UnlinkProject(ctx, id); err != nil {
			return err
		}
		if err := tx.descriptionRepo.DeleteByProject(ctx, id); err != nil {
			return err
		}
		return tx.projectRepo.Delete(ctx, id)
	})
	if err != nil {
		return errs.NewTransactionFailedError("delete project", err)
	}
	return nil
}

// DeleteTag removes the tag with exactly this name and its associations. Projects are kept.
func (d Database) DeleteTag(ctx context.Context, name string) error {
	err := d.Transaction(ctx, func(tx Database) error {
		tag, err := tx.tagRepo.FindByName(ctx, name)
		if err != nil {
			return err
		}
		if err := tx.projectTagRepo.UnlinkTag(ctx, tag.ID); err != nil {
			return err
		}
		return tx.tagRepo.Delete(ctx, tag.ID)
	})
	if err != nil {
		return errs.NewTransactionFailedError("delete tag", err)
	}
	return nil
}

// RenameTag changes a tag's name. Taking a name owned by another tag is a conflict.
func (d Database) RenameTag(ctx context.Context, id uint, name string) (*models.Tag, error) {
	if name == "" {
		return nil, errs.NewMissingRequiredFieldError("name")
	}

	var renamed *models.Tag
	err := d.Transaction(ctx, func(tx Database) error {
		tag, err := tx.tagRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if tag.Name == name {
			renamed = tag
			return nil
		}

		existing, err := tx.tagRepo.FindByName(ctx, name)
		if err != nil && !errs.IsNotFound(err) {
			return err
		}
		if existing != nil {
			return errs.NewAlreadyExists("tag")
		}

		if err := tx.tagRepo.Rename(ctx, tag, name); err != nil {
			return err
		}
		renamed = tag
		return nil
	})
	if err != nil {
		return nil, errs.NewTransactionFailedError("rename tag", err)
	}
	return renamed, nil
}

// attachTags find-or-creates each distinct name and links it to the project.
func (d Database) attachTags(ctx context.Context, projectID uint, names []string) error {
	names = models.UniqueNames(names)
	if len(names) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(names))
	for _, name := range names {
		tag, err := d.tagRepo.FindOrCreate(ctx, name)
		if err != nil {
			return err
		}
		ids = append(ids, tag.ID)
	}
	return d.projectTagRepo.Link(ctx, projectID, ids)
}
