package model

import (
	baseModel "storefront_api/pkg/model"
)

// User is the slim buyer profile this service reads. Registration, login and
// role management live in the identity collaborator.
type User struct {
	baseModel.BaseModel
	Name  string `gorm:"type:varchar(100)" json:"name"`
	Email string `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	Phone string `gorm:"type:varchar(20)" json:"phone"`
	Role  int    `gorm:"default:0" json:"role"`
}

const (
	RoleUser  = 0
	RoleAdmin = 1
)
