package models

import "gorm.io/datatypes"

// Project is a portfolio entry. It owns its descriptions and shares tags with other projects.
type Project struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	Title        string          `json:"title" gorm:"size:255;not null;index:idx_project_title"`
	Overview     string          `json:"overview" gorm:"type:text;not null"`
	GithubLink   *string         `json:"githubLink,omitempty" gorm:"size:255"`
	StartDate    *datatypes.Date `json:"startDate,omitempty"`
	EndDate      *datatypes.Date `json:"endDate,omitempty"`
	Descriptions []Description   `json:"descriptions,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Tags         []Tag           `json:"tags,omitempty" gorm:"many2many:project_tags;constraint:OnDelete:CASCADE"`
}

// DescriptionTexts returns the description bodies in the order they were stored.
func (p Project) DescriptionTexts() []string {
	texts := make([]string, 0, len(p.Descriptions))
	for _, d := range p.Descriptions {
		texts = append(texts, d.Text)
	}
	return texts
}

// TagNames returns the names of the project's tags.
func (p Project) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.Name)
	}
	return names
}
