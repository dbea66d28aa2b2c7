package models

import (
	"time"
)

// TradeRequestStatus represents the state of a trade negotiation
type TradeRequestStatus string

const (
	TradeStatusPending  TradeRequestStatus = "pending"
	TradeStatusAccepted TradeRequestStatus = "accepted"
	TradeStatusRejected TradeRequestStatus = "rejected"
)

// TradeRequest represents a proposed swap between two plants. It is keyed
// by the ordered pair of plant ids rather than a synthetic id; the
// composite primary key doubles as the unique constraint that rejects
// concurrent duplicate proposals for the same pair.
//
// OutgoingUserID and IncomingUserID are snapshots of the plant owners at
// creation time and are never recomputed.
type TradeRequest struct {
	OutgoingPlantID string             `gorm:"primaryKey;type:varchar(36)" json:"outgoingPlantId"`
	IncomingPlantID string             `gorm:"primaryKey;type:varchar(36)" json:"incomingPlantId"`
	OutgoingUserID  string             `gorm:"size:36;index;not null" json:"outgoingUserId"`
	IncomingUserID  string             `gorm:"size:36;index;not null" json:"incomingUserId"`
	Status          TradeRequestStatus `gorm:"size:20;default:'pending'" json:"status"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`

	// The message thread attached to this negotiation, in insertion order.
	Messages []Message `gorm:"foreignKey:OutgoingPlantID,IncomingPlantID;references:OutgoingPlantID,IncomingPlantID;constraint:OnDelete:CASCADE" json:"messages"`

	// A trade request is meaningless once either side's plant is gone,
	// so both plant foreign keys cascade. The user foreign keys cascade
	// too, though in practice the plant cascade is the controlling path.
	OutgoingPlant *Plant `gorm:"foreignKey:OutgoingPlantID;constraint:OnDelete:CASCADE" json:"-"`
	IncomingPlant *Plant `gorm:"foreignKey:IncomingPlantID;constraint:OnDelete:CASCADE" json:"-"`
	OutgoingUser  *User  `gorm:"foreignKey:OutgoingUserID;constraint:OnDelete:CASCADE" json:"-"`
	IncomingUser  *User  `gorm:"foreignKey:IncomingUserID;constraint:OnDelete:CASCADE" json:"-"`
}
