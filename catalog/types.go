// Package catalog is a small product catalog used as input by the source
// provider tests and the CLI examples.
package catalog

import (
	"errors"
	"time"
)

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
)

// Tags is a named slice; it has no members of its own.
type Tags []string

// Product represents an individual item available for sale.
// Prices are in cents.
type Product struct {
	ID         int64  `wire:"id"`
	SKU        string `json:"sku"`
	Name       string
	PriceCents int64
	Tags       Tags
	Internal   string `wire:"-"`
	Revision   int    `wire:",generated"`

	//wire:ignore
	Cache map[string]string

	Description string //wire:name desc

	stock int
	_     struct{}
}

// NewProduct is the main constructor.
func NewProduct(id int64, sku, name string) *Product {
	return &Product{ID: id, SKU: sku, Name: name}
}

// NewProductFromSKU builds a product that is not priced yet.
func NewProductFromSKU(sku string) (*Product, error) {
	if sku == "" {
		return nil, errors.New("catalog: empty sku")
	}

	return &Product{SKU: sku}, nil
}

// Stock returns the units on hand.
func (p *Product) Stock() int { return p.stock }

// SetStock sets the units on hand.
func (p *Product) SetStock(n int) { p.stock = n }

// Margin is derived from the price.
//
//wire:property
func (p *Product) Margin() float64 { return float64(p.PriceCents) * 0.3 }

func (p Product) String() string { return p.SKU }

// Customer represents the user placing orders.
type Customer struct {
	Email    string
	FullName string
	Since    time.Time
	enabled  bool
}

// NewCustomer is the constructor decoders must use.
//
//wire:constructor
func NewCustomer(email string) *Customer {
	return &Customer{Email: email, enabled: true}
}

// NewCustomerNamed sets both identity fields.
func NewCustomerNamed(email, fullName string) *Customer {
	return &Customer{Email: email, FullName: fullName}
}

func (c *Customer) active() bool     { return c.enabled }
func (c *Customer) setActive(v bool) { c.enabled = v }

// Audit is embedded by types that track authorship.
type Audit struct {
	CreatedBy string
	UpdatedBy string
}

// LineItem is a product line within an order.
type LineItem struct {
	ProductID int64
	Quantity  int
	UnitCents int64
}

// NewLineItem snapshots the unit price.
func NewLineItem(productID int64, quantity int, unitCents int64) LineItem {
	return LineItem{ProductID: productID, Quantity: quantity, UnitCents: unitCents}
}

// Order represents a transaction made by a customer.
type Order struct {
	Audit

	ID       int64
	Customer *Customer
	Items    []LineItem
	Status   Status
	placedAt time.Time
}

// NewOrder opens a pending order.
func NewOrder(id int64, customer *Customer) Order {
	return Order{ID: id, Customer: customer, Status: StatusPending}
}

// PlacedAt reports when the order was placed.
func (o *Order) PlacedAt() time.Time { return o.placedAt }

// Point is a plain value without constructors.
type Point struct {
	X, Y int
}

// Pricer is implemented by priced items. Interfaces are not described.
type Pricer interface {
	Price() int64
}

// Page is generic and therefore not described.
type Page[T any] struct {
	Items []T
	Next  string
}
