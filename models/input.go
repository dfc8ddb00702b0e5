package models

import "gorm.io/datatypes"

// ProjectInput holds everything needed to create a project.
type ProjectInput struct {
	Title        string
	Overview     string
	GithubLink   *string
	StartDate    *datatypes.Date
	EndDate      *datatypes.Date
	Tags         []string
	Descriptions []string
}

// ProjectPatch is a sparse update. Nil fields are left untouched; a non-nil empty slice clears
// the corresponding collection.
type ProjectPatch struct {
	Title        *string
	Overview     *string
	GithubLink   *string
	StartDate    *datatypes.Date
	EndDate      *datatypes.Date
	Tags         *[]string
	Descriptions *[]string
}

func (p ProjectPatch) IsEmpty() bool {
	return p.Title == nil && p.Overview == nil && p.GithubLink == nil &&
		p.StartDate == nil && p.EndDate == nil &&
		p.Tags == nil && p.Descriptions == nil
}

// Columns returns the scalar columns the patch overwrites.
func (p ProjectPatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Overview != nil {
		cols["overview"] = *p.Overview
	}
	if p.GithubLink != nil {
		cols["github_link"] = *p.GithubLink
	}
	if p.StartDate != nil {
		cols["start_date"] = *p.StartDate
	}
	if p.EndDate != nil {
		cols["end_date"] = *p.EndDate
	}
	return cols
}
