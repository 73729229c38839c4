package project

import "time"

type Project struct {
	ID        string
	CompanyID string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Member struct {
	UserID    string
	UserName  string
	IsManager bool
}
