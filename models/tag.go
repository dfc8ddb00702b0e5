package models

// Tag is a label shared between projects. Names are unique.
type Tag struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	Name     string    `json:"name" gorm:"size:100;not null;uniqueIndex:idx_tag_name"`
	Projects []Project `json:"-" gorm:"many2many:project_tags;constraint:OnDelete:CASCADE"`
}
