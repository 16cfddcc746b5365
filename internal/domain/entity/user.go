package entity

import "time"

const DefaultUserRole = "staff"

type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Password     string    `gorm:"type:varchar(255);not null" json:"-"`
	Name         *string   `gorm:"type:varchar(255)" json:"name"`
	ProfileImage *string   `gorm:"type:varchar(500)" json:"profile_image"`
	Role         string    `gorm:"type:varchar(50);not null;default:staff" json:"role"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
