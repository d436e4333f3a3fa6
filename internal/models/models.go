package models

import "time"

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleEditor Role = "EDITOR"
	RoleWriter Role = "WRITER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleWriter:
		return true
	}
	return false
}

type PostStatus string

const (
	StatusDraft               PostStatus = "DRAFT"
	StatusVerificationPending PostStatus = "VERIFICATION_PENDING"
	StatusPublished           PostStatus = "PUBLISHED"
)

func (s PostStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusVerificationPending, StatusPublished:
		return true
	}
	return false
}

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"not null"                 json:"name"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         Role      `gorm:"not null"                 json:"role"`
	Bio          string    `json:"bio"`
	ImageURL     string    `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
}

// RefreshToken rows store a sha256 of the raw token, never the token itself.
type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"          json:"id"`
	Token     string `gorm:"uniqueIndex;not null" json:"-"`
	JTI       string `gorm:"uniqueIndex;not null" json:"jti"`
	UserID    uint   `gorm:"index;not null"       json:"user_id"`
	ExpiresAt int64  `gorm:"not null"             json:"expires_at"`
}

type Post struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string     `gorm:"not null"                 json:"title"`
	Slug        string     `gorm:"uniqueIndex;not null"     json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	CoverURL    string     `json:"cover_url"`
	Status      PostStatus `gorm:"not null;index"           json:"status"`
	AuthorID    uint       `gorm:"index;not null"           json:"author_id"`
	CategoryID  uint       `gorm:"index"                    json:"category_id"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Category struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"uniqueIndex;not null"     json:"name"`
	Slug string `gorm:"uniqueIndex;not null"     json:"slug"`
}

type Image struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FileName    string    `gorm:"not null"                 json:"file_name"`
	URL         string    `gorm:"not null"                 json:"url"`
	UploaderID  uint      `gorm:"index;not null"           json:"uploader_id"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

type Setting struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Key   string `gorm:"uniqueIndex;not null"     json:"key"`
	Value string `json:"value"`
}

type ContactMessage struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null"                 json:"name"`
	Email     string    `gorm:"not null"                 json:"email"`
	Subject   string    `json:"subject"`
	Body      string    `gorm:"not null"                 json:"body"`
	Read      bool      `gorm:"default:false"            json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
