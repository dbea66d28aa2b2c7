package trading

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"plantswap-server/internal/models"
)

// Error kinds returned by the negotiation engine. The transport layer
// maps each one to a fixed status code and message string; nothing here
// is user-facing text.
var (
	// ErrOutgoingNotOwned: the caller does not own the plant they are
	// offering. Raised even when the plant does not exist at all, so a
	// caller cannot probe for foreign plant ids.
	ErrOutgoingNotOwned = errors.New("trading: caller does not own the outgoing plant")

	// ErrIncomingNotOwned: the caller does not own the plant on the
	// receiving side of the pair.
	ErrIncomingNotOwned = errors.New("trading: caller does not own the incoming plant")

	// ErrIncomingPlantNotFound: the wanted plant does not exist.
	ErrIncomingPlantNotFound = errors.New("trading: incoming plant not found")

	// ErrSelfTrade: both plants belong to the caller.
	ErrSelfTrade = errors.New("trading: cannot trade with yourself")

	// ErrDuplicate: a request for the pair, or its mirror, already exists.
	ErrDuplicate = errors.New("trading: trade request already exists for this pair")

	// ErrNotFound: no request exists for the pair. Also returned when the
	// caller is not one of the two parties, so non-participants cannot
	// tell whether the pair exists.
	ErrNotFound = errors.New("trading: no trade request with the given plant ids")

	// ErrAlreadyResolved: the request left the pending state and the
	// caller asked for the opposite resolution.
	ErrAlreadyResolved = errors.New("trading: trade request already resolved")

	// ErrEmptyMessage: a message with no content.
	ErrEmptyMessage = errors.New("trading: message content is empty")

	// ErrInvalidDirection and ErrInvalidScope guard the enum parameters.
	ErrInvalidDirection = errors.New("trading: invalid direction")
	ErrInvalidScope     = errors.New("trading: invalid scope")
)

// Direction selects which side of a trade request the caller is viewing
// it from, and therefore which plant they must own.
type Direction string

const (
	DirectionOutgoing Direction = "outgoing"
	DirectionIncoming Direction = "incoming"
)

// Scope selects which of the caller's trade requests to list.
type Scope string

const (
	ScopeOutgoing Scope = "outgoing"
	ScopeIncoming Scope = "incoming"
	ScopeAll      Scope = "all"
)

// Engine implements the trade-request negotiation rules on top of the
// transactional store. Every operation runs as a single transaction, so
// its validation reads and its writes see one consistent snapshot; the
// composite primary key on (outgoing_plant_id, incoming_plant_id) backs
// the duplicate check up against concurrent creates.
type Engine struct {
	db *gorm.DB
}

// NewEngine creates a new Engine.
func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// Create proposes a swap of the caller's outgoing plant for the incoming
// plant, with an optional opening message. The owner ids are snapshotted
// from the plants at creation time.
func (e *Engine) Create(ctx context.Context, callerID, outgoingPlantID, incomingPlantID, message string) (*models.TradeRequest, error) {
	var created models.TradeRequest
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var outgoing models.Plant
		if err := tx.Where("id = ? AND owner_id = ?", outgoingPlantID, callerID).First(&outgoing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOutgoingNotOwned
			}
			return err
		}

		var incoming models.Plant
		if err := tx.First(&incoming, "id = ?", incomingPlantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrIncomingPlantNotFound
			}
			return err
		}

		if incoming.OwnerID == callerID {
			return ErrSelfTrade
		}

		// Only one negotiation direction may exist per unordered pair, so
		// the mirror pair blocks creation as well.
		var count int64
		if err := tx.Model(&models.TradeRequest{}).
			Where("(outgoing_plant_id = ? AND incoming_plant_id = ?) OR (outgoing_plant_id = ? AND incoming_plant_id = ?)",
				outgoingPlantID, incomingPlantID, incomingPlantID, outgoingPlantID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicate
		}

		created = models.TradeRequest{
			OutgoingPlantID: outgoingPlantID,
			IncomingPlantID: incomingPlantID,
			OutgoingUserID:  outgoing.OwnerID,
			IncomingUserID:  incoming.OwnerID,
			Status:          models.TradeStatusPending,
			Messages:        []models.Message{},
		}
		if err := tx.Create(&created).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicate
			}
			return err
		}

		if message = strings.TrimSpace(message); message != "" {
			opening := models.Message{
				OutgoingPlantID: outgoingPlantID,
				IncomingPlantID: incomingPlantID,
				SenderID:        callerID,
				Content:         message,
			}
			if err := tx.Create(&opening).Error; err != nil {
				return err
			}
			created.Messages = append(created.Messages, opening)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Get returns the trade request for the given pair, viewed from the
// given direction. The caller must own the plant on that side.
func (e *Engine) Get(ctx context.Context, callerID, outgoingPlantID, incomingPlantID string, direction Direction) (*models.TradeRequest, error) {
	var requiredPlantID string
	var notOwned error
	switch direction {
	case DirectionOutgoing:
		requiredPlantID = outgoingPlantID
		notOwned = ErrOutgoingNotOwned
	case DirectionIncoming:
		requiredPlantID = incomingPlantID
		notOwned = ErrIncomingNotOwned
	default:
		return nil, ErrInvalidDirection
	}

	var tradeRequest models.TradeRequest
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owned int64
		if err := tx.Model(&models.Plant{}).
			Where("id = ? AND owner_id = ?", requiredPlantID, callerID).
			Count(&owned).Error; err != nil {
			return err
		}
		if owned == 0 {
			return notOwned
		}
		return loadTradeRequest(tx, &tradeRequest, outgoingPlantID, incomingPlantID)
	})
	if err != nil {
		return nil, err
	}
	return &tradeRequest, nil
}

// List returns a page of the caller's trade requests in creation order,
// together with the number of items in the page.
func (e *Engine) List(ctx context.Context, callerID string, scope Scope, skip, limit int) ([]models.TradeRequest, int, error) {
	query := e.db.WithContext(ctx)
	switch scope {
	case ScopeOutgoing:
		query = query.Where("outgoing_user_id = ?", callerID)
	case ScopeIncoming:
		query = query.Where("incoming_user_id = ?", callerID)
	case ScopeAll:
		query = query.Where("outgoing_user_id = ? OR incoming_user_id = ?", callerID, callerID)
	default:
		return nil, 0, ErrInvalidScope
	}

	tradeRequests := []models.TradeRequest{}
	err := query.
		Preload("Messages", messageOrder).
		Order("created_at ASC").
		Order("outgoing_plant_id ASC").
		Order("incoming_plant_id ASC").
		Offset(skip).
		Limit(limit).
		Find(&tradeRequests).Error
	if err != nil {
		return nil, 0, err
	}
	return tradeRequests, len(tradeRequests), nil
}

// Accept marks the request as accepted. Only the incoming-plant owner
// may resolve a request.
func (e *Engine) Accept(ctx context.Context, callerID, outgoingPlantID, incomingPlantID string) (*models.TradeRequest, error) {
	return e.resolve(ctx, callerID, outgoingPlantID, incomingPlantID, models.TradeStatusAccepted)
}

// Reject marks the request as rejected. Only the incoming-plant owner
// may resolve a request.
func (e *Engine) Reject(ctx context.Context, callerID, outgoingPlantID, incomingPlantID string) (*models.TradeRequest, error) {
	return e.resolve(ctx, callerID, outgoingPlantID, incomingPlantID, models.TradeStatusRejected)
}

// resolve performs the one-way status transition. Repeating the status
// the request already has is a no-op; once a request has left pending,
// flipping it to the opposite resolution is refused and nothing ever
// returns it to pending.
func (e *Engine) resolve(ctx context.Context, callerID, outgoingPlantID, incomingPlantID string, target models.TradeRequestStatus) (*models.TradeRequest, error) {
	var tradeRequest models.TradeRequest
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := loadTradeRequest(tx, &tradeRequest, outgoingPlantID, incomingPlantID); err != nil {
			return err
		}
		if tradeRequest.IncomingUserID != callerID {
			return ErrIncomingNotOwned
		}
		if tradeRequest.Status == target {
			return nil
		}
		if tradeRequest.Status != models.TradeStatusPending {
			return ErrAlreadyResolved
		}
		tradeRequest.Status = target
		return tx.Model(&models.TradeRequest{}).
			Where("outgoing_plant_id = ? AND incoming_plant_id = ?", outgoingPlantID, incomingPlantID).
			Update("status", target).Error
	})
	if err != nil {
		return nil, err
	}
	return &tradeRequest, nil
}

// AddMessage appends a message to the request's thread. Either party may
// write; anyone else gets ErrNotFound so the pair's existence is not
// confirmed to outsiders. Status is untouched.
func (e *Engine) AddMessage(ctx context.Context, callerID, outgoingPlantID, incomingPlantID, content string) (*models.TradeRequest, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	var tradeRequest models.TradeRequest
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := loadPartyTradeRequest(tx, &tradeRequest, callerID, outgoingPlantID, incomingPlantID); err != nil {
			return err
		}

		message := models.Message{
			OutgoingPlantID: outgoingPlantID,
			IncomingPlantID: incomingPlantID,
			SenderID:        callerID,
			Content:         content,
		}
		if err := tx.Create(&message).Error; err != nil {
			return err
		}
		tradeRequest.Messages = append(tradeRequest.Messages, message)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tradeRequest, nil
}

// Delete removes the request and its whole message thread. Either party
// may delete; anyone else gets ErrNotFound. The returned entity is the
// request as it was at the moment of deletion.
func (e *Engine) Delete(ctx context.Context, callerID, outgoingPlantID, incomingPlantID string) (*models.TradeRequest, error) {
	var tradeRequest models.TradeRequest
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := loadPartyTradeRequest(tx, &tradeRequest, callerID, outgoingPlantID, incomingPlantID); err != nil {
			return err
		}
		// The messages go with it through the store's cascade.
		return tx.
			Where("outgoing_plant_id = ? AND incoming_plant_id = ?", outgoingPlantID, incomingPlantID).
			Delete(&models.TradeRequest{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &tradeRequest, nil
}

// loadTradeRequest fetches the request for the exact ordered pair with
// its thread, or ErrNotFound.
func loadTradeRequest(tx *gorm.DB, dest *models.TradeRequest, outgoingPlantID, incomingPlantID string) error {
	err := tx.
		Preload("Messages", messageOrder).
		Where("outgoing_plant_id = ? AND incoming_plant_id = ?", outgoingPlantID, incomingPlantID).
		First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// loadPartyTradeRequest is the existence-leak-avoiding lookup: the
// party check is part of the query, so a non-participant and a missing
// pair are indistinguishable.
func loadPartyTradeRequest(tx *gorm.DB, dest *models.TradeRequest, callerID, outgoingPlantID, incomingPlantID string) error {
	err := tx.
		Preload("Messages", messageOrder).
		Where("outgoing_plant_id = ? AND incoming_plant_id = ?", outgoingPlantID, incomingPlantID).
		Where("outgoing_user_id = ? OR incoming_user_id = ?", callerID, callerID).
		First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func messageOrder(db *gorm.DB) *gorm.DB {
	return db.Order("messages.created_at ASC").Order("messages.id ASC")
}
