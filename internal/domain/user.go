package domain

import (
	"time"

	"gorm.io/gorm"
)

// OnlineWindow is how recently a user must have been seen to count as online.
const OnlineWindow = 5 * time.Minute

type User struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Email           string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Role            string     `gorm:"size:64;not null;default:user;index:idx_users_role" json:"role"`
	PasswordHash    string     `gorm:"size:1024" json:"-"`
	LastSeen        *time.Time `json:"last_seen,omitempty"`
	SignInCount     int        `gorm:"not null;default:0" json:"sign_in_count"`
	CurrentSignInIP string     `gorm:"size:64" json:"current_sign_in_ip"`
	LastSignInIP    string     `gorm:"size:64" json:"last_sign_in_ip"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Online is derived from LastSeen when the row is loaded.
	Online bool `gorm:"-" json:"online"`
}

func (u *User) OnlineAt(now time.Time) bool {
	return u.LastSeen != nil && now.Sub(*u.LastSeen) < OnlineWindow
}

func (u *User) AfterFind(*gorm.DB) error {
	u.Online = u.OnlineAt(time.Now())
	return nil
}
