package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"plantswap-server/internal/middleware"
	"plantswap-server/internal/trading"
	"plantswap-server/internal/utils"
)

// TradeHandler translates HTTP requests into trade-negotiation engine
// calls and engine errors into the fixed status/message pairs the API
// promises.
type TradeHandler struct {
	Engine *trading.Engine
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(engine *trading.Engine) *TradeHandler {
	return &TradeHandler{Engine: engine}
}

// CreateTradeRequest handles proposing a swap between the two plants in
// the path, with an optional opening message as form data.
func (h *TradeHandler) CreateTradeRequest(c *gin.Context) {
	caller, ok := middleware.GetCurrentUser(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	tradeRequest, err := h.Engine.Create(
		c.Request.Context(),
		caller.ID,
		c.Param("outgoing_plant_id"),
		c.Param("incoming_plant_id"),
		c.PostForm("message"),
	)
	if err != nil {
		h.respondTradeError(c, err)
		return
	}

	utils.Created(c, "Trade request created successfully", tradeRequest)
}

// GetTradeRequest handles fetching a single trade request. The
// direction query parameter picks which side the caller views it from
// and therefore which plant they must own; it defaults to outgoing.
func (h *TradeHandler) GetTradeRequest(c *gin.Context) {
	caller, ok := middleware.GetCurrentUser(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	direction := trading.Direction(c.DefaultQuery("direction", string(trading.DirectionOutgoing)))

	tradeRequest, err := h.Engine.Get(
		c.Request.Context(),
		caller.ID,
		c.Param("outgoing_plant_id"),
		c.Param("incoming_plant_id"),
		direction,
	)
	if err != nil {
		h.respondTradeError(c, err)
		return
	}

	utils.Success(c, "Trade request fetched successfully", tradeRequest)
}

// GetOutgoingTradeRequests lists the caller's outgoing trade requests.
func (h *TradeHandler) GetOutgoingTradeRequests(c *gin.Context) {
	h.listTradeRequests(c, trading.ScopeOutgoing)
}

// GetIncomingTradeRequests lists the caller's incoming trade requests.
func (h *TradeHandler) GetIncomingTradeRequests(c *gin.Context) {
	h.listTradeRequests(c, trading.ScopeIncoming)
}

// GetAllTradeRequests lists every trade request the caller is a party to.
func (h *TradeHandler) GetAllTradeRequests(c *gin.Context) {
	h.listTradeRequests(c, trading.ScopeAll)
}

func (h *TradeHandler) listTradeRequests(c *gin.Context, scope trading.Scope) {
	caller, ok := middleware.GetCurrentUser(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	skip, limit := paginationParams(c)

	tradeRequests, count, err := h.Engine.List(c.Request.Context(), caller.ID, scope, skip, limit)
	if err != nil {
		h.respondTradeError(c, err)
		return
	}

	utils.Success(c, "Trade requests fetched successfully", ListResponse{
		Data:  tradeRequests,
		Count: count,
	})
}

// AcceptTradeRequest handles accepting a pending trade request.
func (h *TradeHandler) AcceptTradeRequest(c *gin.Context) {
	h.resolveTradeRequest(c, true)
}

// RejectTradeRequest handles rejecting a pending trade request.
func (h *TradeHandler) RejectTradeRequest(c *gin.Context) {
	h.resolveTradeRequest(c, false)
}

func (h *TradeHandler) resolveTradeRequest(c *gin.Context, accept bool) {
	caller, ok := middleware.GetCurrentUser(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	outgoingPlantID := c.Param("outgoing_plant_id")
	incomingPlantID := c.Param("incoming_plant_id")

	var err error
	var tradeRequest interface{}
	if accept {
		tradeRequest, err = h.Engine.Accept(c.Request.Context(), caller.ID, outgoingPlantID, incomingPlantID)
	} else {
		tradeRequest, err = h.Engine.Reject(c.Request.Context(), caller.ID, outgoingPlantID, incomingPlantID)
	}
	if err != nil {
		h.respondTradeError(c, err)
		return
	}

	message := "Trade request rejected"
	if accept {
		message = "Trade request accepted"
	}
	utils.Success(c, message, tradeRequest)
}

// AddTradeMessage appends a message (form data) to the request's thread.
func (h *TradeHandler) AddTradeMessage(c *gin.Context) {
	caller, ok := middleware.GetCurrentUser(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	tradeRequest, err := h.Engine.AddMessage(
		c.Request.Context(),
		caller.ID,
		c.Param("outgoing_plant_id"),
		c.Param("incoming_plant_id"),
		c.PostForm("message"),
	)
	if err != nil {
		h.respondTradeError(c, err)
		return
	}

	utils.Success(c, "Message added successfully", tradeRequest)
}

// DeleteTradeRequest handles withdrawing a trade request. Either party
// may delete; the whole message thread goes with it.
func (h *TradeHandler) DeleteTradeRequest(c *gin.Context) {
	caller, ok := middleware.GetCurrentUser(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	tradeRequest, err := h.Engine.Delete(
		c.Request.Context(),
		caller.ID,
		c.Param("outgoing_plant_id"),
		c.Param("incoming_plant_id"),
	)
	if err != nil {
		h.respondTradeError(c, err)
		return
	}

	utils.Success(c, "Trade request deleted successfully", tradeRequest)
}

// respondTradeError maps engine errors onto the fixed status codes and
// message strings of the API contract.
func (h *TradeHandler) respondTradeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, trading.ErrOutgoingNotOwned):
		utils.Unauthorized(c, "You cannot trade other people's plants (you do not own the plant you want to offer).")
	case errors.Is(err, trading.ErrIncomingNotOwned):
		utils.Unauthorized(c, "You do not own the incoming plant.")
	case errors.Is(err, trading.ErrIncomingPlantNotFound):
		utils.NotFound(c, "The plant you want does not exist.")
	case errors.Is(err, trading.ErrSelfTrade):
		utils.Teapot(c, "You cannot trade with yourself.")
	case errors.Is(err, trading.ErrDuplicate):
		utils.Conflict(c, "You already have a trade request for these two plants.")
	case errors.Is(err, trading.ErrNotFound):
		utils.NotFound(c, "No trade request with the given plant ids exists.")
	case errors.Is(err, trading.ErrAlreadyResolved):
		utils.Conflict(c, "This trade request has already been resolved.")
	case errors.Is(err, trading.ErrEmptyMessage):
		utils.BadRequest(c, "Message content cannot be empty.")
	case errors.Is(err, trading.ErrInvalidDirection):
		utils.BadRequest(c, "Direction must be either 'outgoing' or 'incoming'.")
	default:
		utils.InternalServerError(c, "Database error: "+err.Error())
	}
}
