package httpgin

import "github.com/inkfest/desk-go/internal/domain"

type PurchaseRequest struct {
	Type          string `json:"type" binding:"required"`
	Quantity      int    `json:"quantity"`
	PaymentMethod string `json:"payment_method" binding:"required"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Password      string `json:"password"`
}

type AddScheduleRequest struct {
	Password    string `json:"password"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

type DeleteScheduleRequest struct {
	Password string `json:"password"`
}

// RaffleActionRequest covers both draw and clear.
type RaffleActionRequest struct {
	Password string `json:"password"`
	Type     string `json:"type" binding:"required"`
}

type PurchaseResponse struct {
	Success bool        `json:"success"`
	Sale    domain.Sale `json:"sale"`
	Message string      `json:"message"`
}

type DrawResponse struct {
	Winner domain.RaffleEntry `json:"winner"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
