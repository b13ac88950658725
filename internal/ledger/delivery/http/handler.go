package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/garrison/asset-ledger/internal/ledger/domain"
	"github.com/garrison/asset-ledger/internal/ledger/usecase/command"
	"github.com/garrison/asset-ledger/internal/ledger/usecase/query"
	"github.com/garrison/asset-ledger/pkg/cache"
	"github.com/garrison/asset-ledger/pkg/logger"
)

// LedgerHandler handles HTTP requests for the asset ledger.
type LedgerHandler struct {
	// Command handlers
	submitMovementHandler *command.SubmitMovementHandler
	createLocationHandler *command.CreateLocationHandler
	updateLocationHandler *command.UpdateLocationHandler
	createItemTypeHandler *command.CreateItemTypeHandler
	updateItemTypeHandler *command.UpdateItemTypeHandler

	// Query handlers
	listMovementsHandler *query.ListMovementsHandler
	getDashboardHandler  *query.GetDashboardHandler
	getBalanceHandler    *query.GetBalanceHandler
	listLocationsHandler *query.ListLocationsHandler
	listItemTypesHandler *query.ListItemTypesHandler

	// Prometheus metrics
	requestCounter     *prometheus.CounterVec
	requestLatency     *prometheus.HistogramVec
	movementsCommitted *prometheus.CounterVec
}

// NewLedgerHandler creates a new ledger handler. publisher and reportCache
// may be nil.
func NewLedgerHandler(repo domain.LedgerRepository, publisher command.MovementPublisher, reportCache *cache.ReportCache, enforceSufficiency bool) *LedgerHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_service_requests_total",
			Help: "Total number of requests to the ledger service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_service_request_duration_seconds",
			Help:    "Duration of ledger service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	movementsCommitted := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_movements_committed_total",
			Help: "Total number of committed ledger movements by type",
		},
		[]string{"type"},
	)

	registerCollector(requestCounter)
	registerCollector(requestLatency)
	registerCollector(movementsCommitted)

	return &LedgerHandler{
		submitMovementHandler: command.NewSubmitMovementHandler(repo, publisher, reportCache, enforceSufficiency),
		createLocationHandler: command.NewCreateLocationHandler(repo),
		updateLocationHandler: command.NewUpdateLocationHandler(repo),
		createItemTypeHandler: command.NewCreateItemTypeHandler(repo),
		updateItemTypeHandler: command.NewUpdateItemTypeHandler(repo),
		listMovementsHandler:  query.NewListMovementsHandler(repo),
		getDashboardHandler:   query.NewGetDashboardHandler(repo, reportCache),
		getBalanceHandler:     query.NewGetBalanceHandler(repo),
		listLocationsHandler:  query.NewListLocationsHandler(repo),
		listItemTypesHandler:  query.NewListItemTypesHandler(repo),
		requestCounter:        requestCounter,
		requestLatency:        requestLatency,
		movementsCommitted:    movementsCommitted,
	}
}

// SubmitMovementHandler exposes the transaction processor for non-HTTP
// intakes (the Kafka consumer).
func (h *LedgerHandler) SubmitMovementHandler() *command.SubmitMovementHandler {
	return h.submitMovementHandler
}

// registerCollector registers a collector, tolerating re-registration so
// handler construction stays idempotent.
func registerCollector(c prometheus.Collector) {
	if err := prometheus.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			panic(err)
		}
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SubmitMovement handles POST /api/movements
func (h *LedgerHandler) SubmitMovement(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Authentication required"})
		return
	}

	var req struct {
		Type           string `json:"type"`
		ItemTypeID     uint   `json:"item_type_id"`
		Quantity       int64  `json:"quantity"`
		FromLocationID *uint  `json:"from_location_id"`
		ToLocationID   *uint  `json:"to_location_id"`
		Recipient      string `json:"recipient"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	movement, err := h.submitMovementHandler.Handle(r.Context(), command.SubmitMovementCommand{
		Actor:          actor,
		Type:           domain.MovementType(req.Type),
		ItemTypeID:     req.ItemTypeID,
		Quantity:       req.Quantity,
		FromLocationID: req.FromLocationID,
		ToLocationID:   req.ToLocationID,
		Recipient:      req.Recipient,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Str("type", req.Type).Msg("Failed to submit movement")
		respondError(w, err)
		return
	}

	h.movementsCommitted.WithLabelValues(string(movement.Type)).Inc()

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Movement committed successfully",
		Data:    movement,
	})
}

// ListMovements handles GET /api/movements
func (h *LedgerHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Authentication required"})
		return
	}

	movements, err := h.listMovementsHandler.Handle(r.Context(), query.ListMovementsQuery{Actor: actor})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list movements")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: movements})
}

// GetDashboard handles GET /api/dashboard
func (h *LedgerHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Authentication required"})
		return
	}

	report, err := h.getDashboardHandler.Handle(r.Context(), query.GetDashboardQuery{Actor: actor})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to build dashboard report")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: report})
}

// GetBalance handles GET /api/balances
func (h *LedgerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	locationID, err1 := strconv.ParseUint(r.URL.Query().Get("location_id"), 10, 32)
	itemTypeID, err2 := strconv.ParseUint(r.URL.Query().Get("item_type_id"), 10, 32)
	if err1 != nil || err2 != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "location_id and item_type_id are required"})
		return
	}

	quantity, err := h.getBalanceHandler.Handle(r.Context(), query.GetBalanceQuery{
		LocationID: uint(locationID),
		ItemTypeID: uint(itemTypeID),
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"location_id":  uint(locationID),
			"item_type_id": uint(itemTypeID),
			"quantity":     quantity,
		},
	})
}

// CreateLocation handles POST /api/locations
func (h *LedgerHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	location, err := h.createLocationHandler.Handle(r.Context(), command.CreateLocationCommand{
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create location")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Location created successfully",
		Data:    location,
	})
}

// UpdateLocation handles PUT /api/locations/{id}
func (h *LedgerHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid location id"})
		return
	}

	var req struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	location, err := h.updateLocationHandler.Handle(r.Context(), command.UpdateLocationCommand{
		ID:      uint(id),
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Uint64("location_id", id).Msg("Failed to update location")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Location updated successfully",
		Data:    location,
	})
}

// ListLocations handles GET /api/locations
func (h *LedgerHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.listLocationsHandler.Handle(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: locations})
}

// CreateItemType handles POST /api/item-types
func (h *LedgerHandler) CreateItemType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	itemType, err := h.createItemTypeHandler.Handle(r.Context(), command.CreateItemTypeCommand{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create item type")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Item type created successfully",
		Data:    itemType,
	})
}

// UpdateItemType handles PUT /api/item-types/{id}
func (h *LedgerHandler) UpdateItemType(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid item type id"})
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	itemType, err := h.updateItemTypeHandler.Handle(r.Context(), command.UpdateItemTypeCommand{
		ID:          uint(id),
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Uint64("item_type_id", id).Msg("Failed to update item type")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Item type updated successfully",
		Data:    itemType,
	})
}

// ListItemTypes handles GET /api/item-types
func (h *LedgerHandler) ListItemTypes(w http.ResponseWriter, r *http.Request) {
	itemTypes, err := h.listItemTypesHandler.Handle(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: itemTypes})
}

// RegisterRoutes registers all ledger routes
func (h *LedgerHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/movements", AuthMiddleware(h.SubmitMovement)).Methods("POST")
	router.HandleFunc("/api/movements", AuthMiddleware(h.ListMovements)).Methods("GET")
	router.HandleFunc("/api/dashboard", AuthMiddleware(h.GetDashboard)).Methods("GET")
	router.HandleFunc("/api/balances", AuthMiddleware(h.GetBalance)).Methods("GET")
	router.HandleFunc("/api/locations", AdminMiddleware(h.CreateLocation)).Methods("POST")
	router.HandleFunc("/api/locations", AuthMiddleware(h.ListLocations)).Methods("GET")
	router.HandleFunc("/api/locations/{id}", AdminMiddleware(h.UpdateLocation)).Methods("PUT")
	router.HandleFunc("/api/item-types", AdminMiddleware(h.CreateItemType)).Methods("POST")
	router.HandleFunc("/api/item-types", AuthMiddleware(h.ListItemTypes)).Methods("GET")
	router.HandleFunc("/api/item-types/{id}", AdminMiddleware(h.UpdateItemType)).Methods("PUT")
}

// RegisterHealthCheck registers health check endpoint
func (h *LedgerHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.Ping(); err != nil {
				respondJSON(w, http.StatusServiceUnavailable, Response{Success: false, Error: "Database unavailable"})
				return
			}
		}
		respondJSON(w, http.StatusOK, Response{Success: true, Message: "Ledger service is healthy"})
	}).Methods("GET")
}

// respondError maps core errors to transport status codes.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientInventory):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrCommitConflict), errors.Is(err, domain.ErrStorageUnavailable):
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, Response{Success: false, Error: err.Error()})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
