package models

// Description is one bullet of a project's feature list.
type Description struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Text      string `json:"description" gorm:"column:description;type:text;not null"`
	ProjectID uint   `json:"project_id" gorm:"not null;index:idx_description_project_id"`
}
