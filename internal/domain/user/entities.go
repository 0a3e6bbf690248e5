package user

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("user not found")

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleBorrower Role = "borrower"
	RoleInvestor Role = "investor"
)

// User covers every actor in the system. Balance is the only monetary
// field and is debited exclusively by the funding transaction; there is
// no credit path.
type User struct {
	ID     uint64 `gorm:"primaryKey;column:id" json:"-"`
	UserID string `gorm:"column:user_id;type:char(32);not null;uniqueIndex:ux_users_user_id" json:"user_id"`
	Name   string `gorm:"column:name;size:255;not null" json:"name"`
	Email  string `gorm:"column:email;size:255;not null;uniqueIndex:ux_users_email" json:"email"`
	Role   Role   `gorm:"column:role;type:enum('admin','borrower','investor');not null" json:"role"`
	// Invariant: never negative. Enforced by the funding usecase under a
	// row lock, not by a DB constraint.
	Balance   float64   `gorm:"column:balance;type:decimal(18,2);not null;default:0" json:"balance"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (User) TableName() string { return "users" }
