package models

import "time"

// Contact is a contact-form submission.
type Contact struct {
	ID      int64     `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Message string    `json:"message"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

// Subscriber is a mailing-list entry. Unsubscribing keeps the row.
type Subscriber struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Message    string    `json:"message"`
	Subscribed bool      `json:"subscribed"`
	Created    time.Time `json:"created"`
	Updated    time.Time `json:"updated"`
}
