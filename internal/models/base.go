package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// BaseModel contains common columns for all tables
type BaseModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate will set a UUID rather than numeric ID
func (base *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if base.ID == "" {
		base.ID = uuid.New().String()
	}
	return nil
}

// Database connection instance
var DB *gorm.DB

// InitDB initializes the database connection, runs migrations and seeds
// the first superuser if one was configured.
func InitDB(config DatabaseConfig) (*gorm.DB, error) {
	var err error

	// Connect to MySQL. TranslateError lets unique-constraint violations
	// surface as gorm.ErrDuplicatedKey.
	DB, err = gorm.Open(mysql.Open(config.DSN), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := Migrate(DB); err != nil {
		return nil, err
	}

	if config.FirstSuperuserEmail != "" {
		if err := SeedSuperuser(DB, config.FirstSuperuserEmail, config.FirstSuperuserPassword); err != nil {
			return nil, err
		}
	}

	return DB, nil
}

// Migrate auto migrates the database models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Plant{},
		&TradeRequest{},
		&Message{},
	)
}

// SeedSuperuser creates the configured superuser account unless a user
// with that email already exists.
func SeedSuperuser(db *gorm.DB, email, password string) error {
	var existing User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	superuser := User{
		Email:       email,
		IsActive:    true,
		IsSuperuser: true,
	}
	if err := superuser.SetPassword(password); err != nil {
		return err
	}
	return db.Create(&superuser).Error
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	DSN                    string
	FirstSuperuserEmail    string
	FirstSuperuserPassword string
}
