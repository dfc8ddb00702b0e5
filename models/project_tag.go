package models

// ProjectTag is a row of the project/tag join table.
type ProjectTag struct {
	ProjectID uint `json:"project_id" gorm:"primaryKey;autoIncrement:false"`
	TagID     uint `json:"tag_id" gorm:"primaryKey;autoIncrement:false;index:idx_project_tag_tag_id"`
}

func (ProjectTag) TableName() string {
	return "project_tags"
}
