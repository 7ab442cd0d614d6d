package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Fullname   string    `gorm:"size:120;not null" json:"fullname"`
	Username   string    `gorm:"size:64;index;not null" json:"username"`
	Email      string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Password   string    `gorm:"size:255;not null" json:"-"`
	Preference string    `gorm:"type:text" json:"preference"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

type Post struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	ImageURL    string     `gorm:"type:text;not null" json:"imageUrl"`
	Description string     `gorm:"type:text;not null" json:"description"`
	AuthorID    string     `gorm:"size:36;index;not null" json:"authorId"`
	Author      *User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Reactions   []Reaction `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	Like        []string   `gorm:"-" json:"like"`
	Dislike     []string   `gorm:"-" json:"dislike"`
	CreatedAt   time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (p *Post) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// FillReactions projects the loaded reaction rows into the like and dislike
// username sets. Both are non-nil afterwards. Rows need Reactions.User
// preloaded; rows without a loaded user are skipped.
func (p *Post) FillReactions() {
	p.Like = make([]string, 0)
	p.Dislike = make([]string, 0)
	for _, r := range p.Reactions {
		if r.User == nil {
			continue
		}
		switch r.Kind {
		case ReactionLike:
			p.Like = append(p.Like, r.User.Username)
		case ReactionDislike:
			p.Dislike = append(p.Dislike, r.User.Username)
		}
	}
}

type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// Reaction is one user's membership in a post's like or dislike set.
type Reaction struct {
	PostID    string       `gorm:"primaryKey;size:36"`
	UserID    string       `gorm:"primaryKey;size:36"`
	User      *User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Kind      ReactionKind `gorm:"size:8;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Reaction) TableName() string { return "post_reactions" }

type FavoriteKind string

const (
	FavoritePost  FavoriteKind = "post"
	FavoritePlace FavoriteKind = "place"
)

type Favorite struct {
	ID        string       `gorm:"primaryKey;size:36" json:"id"`
	UserID    string       `gorm:"size:36;index;not null" json:"userId"`
	User      *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	TargetID  string       `gorm:"size:255;not null" json:"targetId"`
	Kind      FavoriteKind `gorm:"size:8;not null;default:post" json:"kind"`
	Title     string       `gorm:"size:255" json:"title,omitempty"`
	ImageURL  string       `gorm:"type:text" json:"imageUrl,omitempty"`
	CreatedAt time.Time    `gorm:"index" json:"createdAt"`
}

func (f *Favorite) BeforeCreate(*gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.Kind == "" {
		f.Kind = FavoritePost
	}
	return nil
}

// UserPostRow is one row of the user to posts left join: the public user
// record plus at most one authored post.
type UserPostRow struct {
	User
	Post *Post `json:"post,omitempty"`
}
