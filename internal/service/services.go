package service

import (
	"github.com/inkfest/desk-go/internal/auth"
	"github.com/inkfest/desk-go/internal/ledger"
	"github.com/inkfest/desk-go/internal/service/query"
	"github.com/inkfest/desk-go/internal/service/raffle"
	"github.com/inkfest/desk-go/internal/service/sales"
	"github.com/inkfest/desk-go/internal/service/schedule"
)

type Services struct {
	Sales    *sales.Service
	Raffle   *raffle.Service
	Schedule *schedule.Service
	Query    *query.Service
}

// NewServices wires the mutation and query services over one shared ledger.
// sink and limiter are optional; nil disables write-through and rate
// limiting respectively.
func NewServices(
	led *ledger.Ledger,
	gate *auth.Gate,
	sink sales.SaleSink,
	limiter sales.RateLimiter,
) *Services {
	return &Services{
		Sales:    sales.New(led, gate, sink, limiter),
		Raffle:   raffle.New(led, gate),
		Schedule: schedule.New(led, gate),
		Query:    query.New(led),
	}
}
