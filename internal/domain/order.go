package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type UserType string

const (
	UserRegular   UserType = "regular"
	UserCorporate UserType = "corporate"
)

func (t UserType) Valid() bool { return t == UserRegular || t == UserCorporate }

type DeliveryType string

const (
	DeliveryDHL    DeliveryType = "dhl"
	DeliveryPickup DeliveryType = "pickup"
)

func (d DeliveryType) Valid() bool { return d == DeliveryDHL || d == DeliveryPickup }

// Customer is the user who placed an order.
type Customer struct {
	ID   int64    `json:"id"`
	Name string   `json:"name"`
	Type UserType `json:"type"`
}

type Manager struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Order is priced by the rule engine. Only price and manager change after
// construction.
type Order struct {
	id       int64
	customer Customer
	delivery DeliveryType
	price    int64
	manager  Manager
}

func NewOrder(id int64, customer Customer, delivery DeliveryType, price int64, manager Manager) (*Order, error) {
	if price < 0 {
		return nil, fmt.Errorf("%w: negative price %d", ErrInvalidOrder, price)
	}
	if !customer.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown user type %q", ErrInvalidOrder, customer.Type)
	}
	if !delivery.Valid() {
		return nil, fmt.Errorf("%w: unknown delivery type %q", ErrInvalidOrder, delivery)
	}
	return &Order{
		id:       id,
		customer: customer,
		delivery: delivery,
		price:    price,
		manager:  manager,
	}, nil
}

func (o *Order) ID() int64              { return o.id }
func (o *Order) Customer() Customer     { return o.customer }
func (o *Order) Delivery() DeliveryType { return o.delivery }
func (o *Order) Price() int64           { return o.price }
func (o *Order) Manager() Manager       { return o.manager }

func (o *Order) SetPrice(price int64) error {
	if price < 0 {
		return fmt.Errorf("%w: negative price %d", ErrInvalidOrder, price)
	}
	o.price = price
	return nil
}

// ApplyPercent changes the price by percent (negative is a discount).
// Half-way results round to even.
func (o *Order) ApplyPercent(percent int64) error {
	if percent < -100 {
		return fmt.Errorf("%w: got %d", ErrInvalidPercentage, percent)
	}
	next := decimal.NewFromInt(o.price).
		Mul(decimal.NewFromInt(100 + percent)).
		Div(decimal.NewFromInt(100)).
		RoundBank(0)
	o.price = next.IntPart()
	return nil
}

func (o *Order) AssignManager(m Manager) {
	o.manager = m
}
