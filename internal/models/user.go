package models

import (
	"time"
)

// Role is the closed set of user roles. The role is decided once, when the
// record is created, and is not re-evaluated on later logins.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCustomer
}

// User is a local record for an externally authenticated identity. Customer
// fields are nil for admins; customers get zero/empty defaults when no value
// was supplied.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	ClerkID      string    `json:"-"`
	Role         Role      `json:"role"`
	CustomerName *string   `json:"customer_name,omitempty"`
	Age          *int      `json:"age,omitempty"`
	Gender       *string   `json:"gender,omitempty"`
	Location     *string   `json:"location,omitempty"`
	Job          *string   `json:"job,omitempty"`
	Salary       *int      `json:"salary,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Name returns the customer display name, or an empty string for admins.
func (u *User) Name() string {
	if u == nil || u.CustomerName == nil {
		return ""
	}
	return *u.CustomerName
}

func (u *User) AgeValue() int {
	if u == nil || u.Age == nil {
		return 0
	}
	return *u.Age
}

func (u *User) GenderValue() string {
	if u == nil || u.Gender == nil {
		return ""
	}
	return *u.Gender
}

func (u *User) LocationValue() string {
	if u == nil || u.Location == nil {
		return ""
	}
	return *u.Location
}

func (u *User) JobValue() string {
	if u == nil || u.Job == nil {
		return ""
	}
	return *u.Job
}

func (u *User) SalaryValue() int {
	if u == nil || u.Salary == nil {
		return 0
	}
	return *u.Salary
}
