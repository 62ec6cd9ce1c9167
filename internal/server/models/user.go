// Package models holds the server's persisted records.
package models

import "time"

// User owns one identifier at a time. Anonymous users have neither an
// email nor a password hash.
type User struct {
	ID              int64
	Email           string
	Token           string
	TokenExpiration time.Time
	PasswordHash    string
	IsAdmin         bool
	Created         time.Time
	Updated         time.Time
}

func (u *User) IsAnonymous() bool {
	return u.PasswordHash == ""
}

// UserView is the JSON shape returned by GET /users/:id.
type UserView struct {
	ID          int64   `json:"id"`
	Email       *string `json:"email"`
	IsAdmin     bool    `json:"is_admin"`
	IsAnonymous bool    `json:"is_anonymous"`
	Created     float64 `json:"created"`
	Updated     float64 `json:"updated"`
}

func (u *User) View() UserView {
	v := UserView{
		ID:          u.ID,
		IsAdmin:     u.IsAdmin,
		IsAnonymous: u.IsAnonymous(),
		Created:     unixSeconds(u.Created),
		Updated:     unixSeconds(u.Updated),
	}
	if u.Email != "" {
		email := u.Email
		v.Email = &email
	}
	return v
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
