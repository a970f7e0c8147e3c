package models

// Post is authored content. Author and CreatedDate never change after creation.
type Post struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"type:text;not null"`
	Body        string    `json:"body" gorm:"type:text;not null"`
	Author      uint      `json:"author" gorm:"not null;index"`
	CreatedDate Timestamp `json:"createdDate" gorm:"not null;index"`

	User User `json:"-" gorm:"foreignKey:Author;constraint:OnDelete:CASCADE"`
}

// PostView is a post joined with its author's profile
type PostView struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	Author         uint      `json:"author"`
	CreatedDate    Timestamp `json:"createdDate"`
	Username       string    `json:"username"`
	Avatar         string    `json:"avatar"`
	IsVisitorOwner bool      `json:"isVisitorOwner" gorm:"-"`
}

// PostInput is a raw create/update submission. Fields stay loosely typed
// until cleanup coerces them, so a number or object sent as a title is
// treated as an empty string instead of failing the bind.
type PostInput struct {
	Title any `json:"title"`
	Body  any `json:"body"`
}

// SearchRequest is the JSON form of a search call
type SearchRequest struct {
	SearchTerm any `json:"searchTerm"`
}
