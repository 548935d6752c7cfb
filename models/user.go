package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role names used by route guards. Team leads approve info sheets and
// costing; team executives work tenders day to day.
const (
	RoleAdmin         = "admin"
	RoleTeamLead      = "team_lead"
	RoleTeamExecutive = "team_executive"
	RoleAccounts      = "accounts"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone        string    `gorm:"size:15;uniqueIndex;not null" json:"phone"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:50;not null;default:'team_executive'" json:"role"`
	Team         string    `gorm:"size:100;index" json:"team"`
	IsActive     bool      `gorm:"default:true" json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

// CanApprove reports whether the user may act on team-lead approval
// endpoints (info sheets, costing sheets).
func (u *User) CanApprove() bool {
	return u.Role == RoleTeamLead || u.Role == RoleAdmin
}

// CanHandlePayments reports whether the user may act on the accounts
// side of payment requests.
func (u *User) CanHandlePayments() bool {
	return u.Role == RoleAccounts || u.Role == RoleAdmin
}
