package models

// Message is one entry in a trade request's thread. The thread is
// append-only: messages are never edited or deleted individually, they
// only disappear when their parent trade request does.
//
// The plant id pair is carried on every message so a message row can be
// resolved to its negotiation without a join; together the two columns
// form the foreign key to the parent trade request.
type Message struct {
	BaseModel
	OutgoingPlantID string `gorm:"size:36;index:idx_messages_trade,priority:1;not null" json:"outgoingPlantId"`
	IncomingPlantID string `gorm:"size:36;index:idx_messages_trade,priority:2;not null" json:"incomingPlantId"`
	SenderID        string `gorm:"size:36;index;not null" json:"senderId"`
	Content         string `gorm:"type:text;not null" json:"content"`

	// Relations
	Sender *User `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"-"`
}
