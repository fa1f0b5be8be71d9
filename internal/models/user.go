package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User role constants
const (
	UserRoleUser  = "user"
	UserRoleAdmin = "admin"
)

// User represents an account. Users are deactivated, never deleted.
type User struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                  string             `bson:"name" json:"name"`
	Email                 string             `bson:"email" json:"email"`
	PasswordHash          string             `bson:"passwordHash" json:"-"`
	Role                  string             `bson:"role" json:"role"`
	IsActive              bool               `bson:"isActive" json:"isActive"`
	RefreshToken          string             `bson:"refreshToken,omitempty" json:"-"`
	RefreshTokenExpiresAt *time.Time         `bson:"refreshTokenExpiresAt,omitempty" json:"-"`
	LastLogin             *time.Time         `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	CreatedAt             time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time          `bson:"updatedAt" json:"updatedAt"`
}
