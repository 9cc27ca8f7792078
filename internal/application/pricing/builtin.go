package pricing

import "github.com/TemirB/patterns/internal/domain"

const (
	RuleCorporateDHL                = "corporate_dhl"
	RuleCorporatePickupOrRegularDHL = "corporate_pickup_or_regular_dhl"
	RuleCorporate                   = "corporate"
	RulePickup                      = "pickup"
)

var (
	corporate = IsUserType(domain.UserCorporate)
	regular   = IsUserType(domain.UserRegular)
	dhl       = HasDelivery(domain.DeliveryDHL)
	pickup    = HasDelivery(domain.DeliveryPickup)
)

// CorporateDHL: corporate user with DHL delivery pays 10% more.
func CorporateDHL() Rule {
	return mustPercent(RuleCorporateDHL, 10, And(corporate, dhl))
}

// CorporatePickupOrRegularDHL: corporate pickup or regular DHL gets 7% off.
func CorporatePickupOrRegularDHL() Rule {
	return mustPercent(RuleCorporatePickupOrRegularDHL, -7, Or(And(corporate, pickup), And(regular, dhl)))
}

// Corporate: any corporate order is 5% dearer.
func Corporate() Rule {
	return mustPercent(RuleCorporate, 5, corporate)
}

// Pickup: self pickup gets 20% off.
func Pickup() Rule {
	return mustPercent(RulePickup, -20, pickup)
}

func DefaultRuleNames() []string {
	return []string{RuleCorporateDHL, RuleCorporatePickupOrRegularDHL, RuleCorporate, RulePickup}
}

// DefaultRules returns fresh instances in the default priority.
func DefaultRules() []Rule {
	return []Rule{CorporateDHL(), CorporatePickupOrRegularDHL(), Corporate(), Pickup()}
}
