package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation for the Asset Ledger Service
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// SubmitMovement godoc
// @Summary Submit a movement
// @Description Validate and atomically commit a typed inventory movement (purchase, transfer, assignment, expenditure)
// @Tags Movements
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{type=string,item_type_id=int,quantity=int,from_location_id=int,to_location_id=int,recipient=string} true "Movement request"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/movements [post]
func (h *LedgerHandler) SubmitMovementDoc() {}

// ListMovements godoc
// @Summary List movements
// @Description Get the movement log scoped to the caller's role and home location
// @Tags Movements
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/movements [get]
func (h *LedgerHandler) ListMovementsDoc() {}

// GetDashboard godoc
// @Summary Dashboard metrics
// @Description Opening/closing balance and flow breakdown for the caller's scope
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=object}
// @Router /api/dashboard [get]
func (h *LedgerHandler) GetDashboardDoc() {}

// GetBalance godoc
// @Summary Get one balance
// @Description Current quantity for a (location, item type) pair
// @Tags Balances
// @Security BearerAuth
// @Produce json
// @Param location_id query int true "Location ID"
// @Param item_type_id query int true "Item type ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/balances [get]
func (h *LedgerHandler) GetBalanceDoc() {}

// CreateLocation godoc
// @Summary Create a location
// @Description Create a new stock-holding location (Admin only)
// @Tags Catalog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,address=string} true "Location data"
// @Success 201 {object} object{success=bool,data=object}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/locations [post]
func (h *LedgerHandler) CreateLocationDoc() {}

// UpdateLocation godoc
// @Summary Update a location
// @Description Update the descriptive fields of a location (Admin only)
// @Tags Catalog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Location ID"
// @Param request body object{name=string,address=string} true "Location data"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 403 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/locations/{id} [put]
func (h *LedgerHandler) UpdateLocationDoc() {}

// CreateItemType godoc
// @Summary Create an item type
// @Description Create a new tracked asset category (Admin only)
// @Tags Catalog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,description=string} true "Item type data"
// @Success 201 {object} object{success=bool,data=object}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/item-types [post]
func (h *LedgerHandler) CreateItemTypeDoc() {}

// UpdateItemType godoc
// @Summary Update an item type
// @Description Update the descriptive fields of an item type (Admin only)
// @Tags Catalog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Item type ID"
// @Param request body object{name=string,description=string} true "Item type data"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 403 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/item-types/{id} [put]
func (h *LedgerHandler) UpdateItemTypeDoc() {}
