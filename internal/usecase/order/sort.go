package order

import (
	"sort"

	domain "qloan-backend/internal/domain/order"
)

// Sorting is done on an in-memory snapshot so every key, including Rating
// (which needs lookups outside the orders table), behaves identically across
// backends. Ties always fall back to creation time then numeric id, so two
// listings over an unchanged store yield identical sequences.

func sortBorrowers(orders []*domain.BorrowerOrder, key domain.SortKey, ratingOf func(string) int) {
	byAge := func(a, b *domain.BorrowerOrder) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	}

	switch key {
	case domain.SortNone:
		sort.SliceStable(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	case domain.SortByDate:
		sort.SliceStable(orders, func(i, j int) bool { return byAge(orders[i], orders[j]) })
	case domain.SortByDuration:
		sort.SliceStable(orders, func(i, j int) bool {
			if orders[i].DurationMonths != orders[j].DurationMonths {
				return orders[i].DurationMonths < orders[j].DurationMonths
			}
			return byAge(orders[i], orders[j])
		})
	case domain.SortByRating:
		sort.SliceStable(orders, func(i, j int) bool {
			ri, rj := ratingOf(orders[i].BorrowerID), ratingOf(orders[j].BorrowerID)
			if ri != rj {
				return ri > rj
			}
			return byAge(orders[i], orders[j])
		})
	case domain.SortByPercentage:
		sort.SliceStable(orders, func(i, j int) bool {
			if c := orders[i].MaxRate.Cmp(orders[j].MaxRate); c != 0 {
				return c < 0
			}
			return byAge(orders[i], orders[j])
		})
	case domain.SortByAmount:
		sort.SliceStable(orders, func(i, j int) bool {
			if c := orders[i].Principal.Cmp(orders[j].Principal); c != 0 {
				return c > 0
			}
			return byAge(orders[i], orders[j])
		})
	}
}

func sortLenders(orders []*domain.LenderOrder, key domain.SortKey, ratingOf func(string) int) {
	byAge := func(a, b *domain.LenderOrder) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	}

	switch key {
	case domain.SortNone:
		sort.SliceStable(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	case domain.SortByDate, domain.SortByDuration:
		// lender offers carry no duration; Duration degrades to Date
		sort.SliceStable(orders, func(i, j int) bool { return byAge(orders[i], orders[j]) })
	case domain.SortByRating:
		sort.SliceStable(orders, func(i, j int) bool {
			ri, rj := ratingOf(orders[i].LenderID), ratingOf(orders[j].LenderID)
			if ri != rj {
				return ri > rj
			}
			return byAge(orders[i], orders[j])
		})
	case domain.SortByPercentage:
		sort.SliceStable(orders, func(i, j int) bool {
			if c := orders[i].MinRate.Cmp(orders[j].MinRate); c != 0 {
				return c < 0
			}
			return byAge(orders[i], orders[j])
		})
	case domain.SortByAmount:
		sort.SliceStable(orders, func(i, j int) bool {
			if c := orders[i].Offered.Cmp(orders[j].Offered); c != 0 {
				return c > 0
			}
			return byAge(orders[i], orders[j])
		})
	}
}
