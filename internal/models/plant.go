package models

// Plant represents a plant ad offered for trade
type Plant struct {
	BaseModel
	OwnerID     string   `gorm:"size:36;index;not null" json:"ownerId"`
	Name        string   `gorm:"size:255;not null" json:"name"`
	Description *string  `gorm:"type:text" json:"description,omitempty"`
	City        *string  `gorm:"size:255" json:"city,omitempty"`
	Tags        []string `gorm:"serializer:json" json:"tags"`
	ImageURL    *string  `gorm:"size:512" json:"imageUrl,omitempty"`

	// Relations
	Owner *User `gorm:"foreignKey:OwnerID" json:"-"`
}
