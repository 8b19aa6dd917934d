// Package pricing computes the price of a purchase. Discounts are
// bundle-exact-match: only a quantity exactly equal to the bundle size gets
// the bundle price. Buying more than a bundle is priced per unit with no
// discount.
package pricing

import "github.com/inkfest/desk-go/internal/domain"

const (
	tattooUnitPrice   = 5
	tattooBundleSize  = 5
	tattooBundlePrice = 20

	merchUnitPrice   = 3
	merchBundleSize  = 3
	merchBundlePrice = 10

	entryUnitPrice = 10
)

// Price returns the whole-purchase price in dollars. It is pure and never
// fails; an unknown kind prices at 0. Callers validate the kind at the
// boundary before pricing is consulted.
func Price(kind domain.TicketKind, quantity int) int {
	switch kind {
	case domain.KindTattoo:
		if quantity == tattooBundleSize {
			return tattooBundlePrice
		}
		return quantity * tattooUnitPrice
	case domain.KindMerch:
		if quantity == merchBundleSize {
			return merchBundlePrice
		}
		return quantity * merchUnitPrice
	case domain.KindEntry:
		return quantity * entryUnitPrice
	}
	return 0
}
