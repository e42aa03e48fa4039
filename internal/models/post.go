package models

import "time"

type Post struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"not null" json:"content"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	Published bool      `gorm:"not null;default:false" json:"published"`
	AuthorID  *string   `json:"author_id"`
	Author    *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostCategory is one row of the many-to-many join between posts and
// categories. Rows are managed explicitly by the post handlers; the schema
// cascades deletes from either side.
type PostCategory struct {
	PostID     int `gorm:"primaryKey" json:"post_id"`
	CategoryID int `gorm:"primaryKey" json:"category_id"`
}

func (PostCategory) TableName() string { return "post_categories" }
