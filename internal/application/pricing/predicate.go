package pricing

import "github.com/TemirB/patterns/internal/domain"

type Predicate func(o *domain.Order) bool

func IsUserType(t domain.UserType) Predicate {
	return func(o *domain.Order) bool { return o.Customer().Type == t }
}

func HasDelivery(d domain.DeliveryType) Predicate {
	return func(o *domain.Order) bool { return o.Delivery() == d }
}

func PriceAtLeast(n int64) Predicate {
	return func(o *domain.Order) bool { return o.Price() >= n }
}

func And(ps ...Predicate) Predicate {
	return func(o *domain.Order) bool {
		for _, p := range ps {
			if !p(o) {
				return false
			}
		}
		return true
	}
}

func Or(ps ...Predicate) Predicate {
	return func(o *domain.Order) bool {
		for _, p := range ps {
			if p(o) {
				return true
			}
		}
		return false
	}
}

func Not(p Predicate) Predicate {
	return func(o *domain.Order) bool { return !p(o) }
}
