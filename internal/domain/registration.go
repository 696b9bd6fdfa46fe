package domain

import "time"

// Registration is a membership inquiry submitted from the public contact form.
type Registration struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Subject   string
	Message   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
