package models

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// User is owned by the account service; this layer only reads it by id or username.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"size:45;not null;uniqueIndex"`
	Email     string    `json:"-" gorm:"size:100"`
	Avatar    string    `json:"avatar" gorm:"size:100"`
	CreatedAt time.Time `json:"created_at"`
}

// UserCompact is the profile shape shown in follower and following lists
type UserCompact struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// BeforeSave keeps the derived avatar in step with the email so joins can select it directly.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Avatar = GravatarURL(u.Email)
	return nil
}

// ToCompact returns the public profile of the user
func (u User) ToCompact() UserCompact {
	return UserCompact{Username: u.Username, Avatar: u.Avatar}
}

// GravatarURL derives the avatar location from an email address.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return "https://gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?s=128"
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}
