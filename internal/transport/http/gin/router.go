package httpgin

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkfest/desk-go/internal/service"
	"github.com/inkfest/desk-go/internal/service/query"
	"github.com/inkfest/desk-go/internal/service/raffle"
	"github.com/inkfest/desk-go/internal/service/sales"
	"github.com/inkfest/desk-go/internal/service/schedule"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter(
	svcs *service.Services,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		api.GET("/revenue", handleGetRevenue(svcs))
		api.GET("/sales", handleGetSales(svcs))
		api.GET("/schedule", handleGetSchedule(svcs))
		api.GET("/raffle/:kind", handleGetRaffleEntries(svcs))

		api.GET("/stream", handleStream(svcs))

		api.POST("/purchase", handlePurchase(svcs))
		api.POST("/schedule", handleAddSchedule(svcs))
		api.DELETE("/schedule/:id", handleDeleteSchedule(svcs))
		api.POST("/raffle/draw", handleDrawWinner(svcs))
		api.POST("/raffle/clear", handleClearRaffle(svcs))
	}

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  Get revenue summary
// @Success  200  {object}  domain.RevenueSummary
// @Router   /api/revenue [get]
func handleGetRevenue(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		writeJSONWithCache(c, http.StatusOK, svcs.Query.Revenue(c.Request.Context()), "no-cache")
	}
}

// @Summary  Get sales log
// @Success  200  {array}  domain.Sale
// @Router   /api/sales [get]
func handleGetSales(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		writeJSONWithCache(c, http.StatusOK, svcs.Query.Sales(c.Request.Context()), "no-cache")
	}
}

// @Summary  Get schedule
// @Success  200  {array}  domain.ScheduleEvent
// @Router   /api/schedule [get]
func handleGetSchedule(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		writeJSONWithCache(c, http.StatusOK, svcs.Query.Schedule(c.Request.Context()), "no-cache")
	}
}

// @Summary  Get raffle entries
// @Param    kind  path  string  true  "Raffle kind (tattoo or merch)"
// @Success  200  {array}   domain.RaffleEntry
// @Failure  400  {object}  ErrorResponse
// @Router   /api/raffle/{kind} [get]
func handleGetRaffleEntries(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := svcs.Query.RaffleEntries(c.Request.Context(), c.Param("kind"))
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, entries, "no-cache")
	}
}

// @Summary  Record a purchase
// @Param    req  body  PurchaseRequest  true  "payload"
// @Success  200  {object}  PurchaseResponse
// @Failure  400  {object}  ErrorResponse
// @Failure  401  {object}  ErrorResponse  "cash without admin password"
// @Failure  429  {object}  ErrorResponse  "rate limited"
// @Router   /api/purchase [post]
func handlePurchase(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PurchaseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		sale, err := svcs.Sales.Purchase(c.Request.Context(), sales.PurchaseInput{
			Kind:          req.Type,
			Quantity:      req.Quantity,
			PaymentMethod: req.PaymentMethod,
			Name:          req.Name,
			Phone:         req.Phone,
			Secret:        req.Password,
			RateKey:       "ip:" + c.ClientIP(),
		})
		if err != nil {
			if errors.Is(err, sales.ErrRateLimited) {
				c.Header("Retry-After", "60")
				c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limited"})
				return
			}
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, PurchaseResponse{
			Success: true,
			Sale:    sale,
			Message: "Purchase successful!",
		})
	}
}

// @Summary  Add schedule event
// @Param    req  body  AddScheduleRequest  true  "payload"
// @Success  200  {object}  domain.ScheduleEvent
// @Failure  401  {object}  ErrorResponse
// @Router   /api/schedule [post]
func handleAddSchedule(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddScheduleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		ev, err := svcs.Schedule.Add(c.Request.Context(), schedule.AddInput{
			Title:       req.Title,
			Date:        req.Date,
			Description: req.Description,
			Secret:      req.Password,
		})
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, ev)
	}
}

// @Summary  Delete schedule event
// @Param    id   path  string                 true  "Event ID"
// @Param    req  body  DeleteScheduleRequest  true  "payload"
// @Success  200  {object}  SuccessResponse
// @Failure  401  {object}  ErrorResponse
// @Router   /api/schedule/{id} [delete]
func handleDeleteSchedule(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DeleteScheduleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		if err := svcs.Schedule.Delete(c.Request.Context(), c.Param("id"), req.Password); err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, SuccessResponse{Success: true})
	}
}

// @Summary  Draw raffle winner
// @Param    req  body  RaffleActionRequest  true  "payload"
// @Success  200  {object}  DrawResponse
// @Failure  400  {object}  ErrorResponse  "no entries available"
// @Failure  401  {object}  ErrorResponse
// @Router   /api/raffle/draw [post]
func handleDrawWinner(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RaffleActionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		winner, err := svcs.Raffle.Draw(c.Request.Context(), req.Type, req.Password)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, DrawResponse{Winner: winner})
	}
}

// @Summary  Clear raffle entries
// @Param    req  body  RaffleActionRequest  true  "payload"
// @Success  200  {object}  SuccessResponse
// @Failure  401  {object}  ErrorResponse
// @Router   /api/raffle/clear [post]
func handleClearRaffle(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RaffleActionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		if err := svcs.Raffle.Clear(c.Request.Context(), req.Type, req.Password); err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, SuccessResponse{Success: true})
	}
}

// --- Helpers ---

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	switch {
	// admin gate
	case errors.Is(err, sales.ErrUnauthorized),
		errors.Is(err, raffle.ErrUnauthorized),
		errors.Is(err, schedule.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	// validation
	case errors.Is(err, sales.ErrInvalidKind):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown ticket type"})
	case errors.Is(err, sales.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "quantity must be a positive integer"})
	case errors.Is(err, sales.ErrBuyerInfoRequired):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name and phone are required for raffle tickets"})
	case errors.Is(err, raffle.ErrInvalidKind), errors.Is(err, query.ErrInvalidKind):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown raffle type"})
	// raffle pool
	case errors.Is(err, raffle.ErrNoEntries):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no entries available"})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
