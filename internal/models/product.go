package models

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultStock        = 0
	DefaultMaxThreshold = 10
	minNameLength       = 2 // characters, not bytes
)

// Product represents a product entity in the inventory system.
type Product struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Stock        int    `json:"stock"`
	MaxThreshold int    `json:"maxThreshold"`
}

// ProductPatch carries the fields of a partial update. Nil fields are left untouched.
type ProductPatch struct {
	Name         *string
	Stock        *int
	MaxThreshold *int
}

// ValidationError reports a client supplied value that violates a product constraint.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"error"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewProduct validates the creation fields and returns a product without an ID.
func NewProduct(name string, stock, maxThreshold int) (Product, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < minNameLength {
		return Product{}, &ValidationError{Field: "name", Message: "name required (min 2 chars)"}
	}
	if stock < 0 {
		return Product{}, &ValidationError{Field: "stock", Message: "stock cannot be negative"}
	}
	if maxThreshold < 0 {
		return Product{}, &ValidationError{Field: "maxThreshold", Message: "maxThreshold cannot be negative"}
	}
	return Product{Name: name, Stock: stock, MaxThreshold: maxThreshold}, nil
}

// Validate checks every supplied field before any of them is applied.
func (pp ProductPatch) Validate() error {
	if pp.Name != nil && utf8.RuneCountInString(strings.TrimSpace(*pp.Name)) < minNameLength {
		return &ValidationError{Field: "name", Message: "name too short"}
	}
	if pp.Stock != nil && *pp.Stock < 0 {
		return &ValidationError{Field: "stock", Message: "stock cannot be negative"}
	}
	if pp.MaxThreshold != nil && *pp.MaxThreshold < 0 {
		return &ValidationError{Field: "maxThreshold", Message: "maxThreshold cannot be negative"}
	}
	return nil
}

// Apply writes the supplied fields onto p. Stock is not clamped to MaxThreshold:
// manual overrides may exceed the bound the simulation respects.
func (pp ProductPatch) Apply(p *Product) {
	if pp.Name != nil {
		p.Name = strings.TrimSpace(*pp.Name)
	}
	if pp.Stock != nil {
		p.Stock = *pp.Stock
	}
	if pp.MaxThreshold != nil {
		p.MaxThreshold = *pp.MaxThreshold
	}
}

// Action is one of the two directions a simulated tick can move stock.
type Action string

const (
	ActionSale     Action = "sale"
	ActionPurchase Action = "purchase"
	ActionManual   Action = "manual"
)

// ActionFromDraw maps a uniform draw in [0,1) to an action. Draws above one half are sales.
func ActionFromDraw(r float64) Action {
	if r > 0.5 {
		return ActionSale
	}
	return ActionPurchase
}

// Apply performs the bounded mutation for a and reports the applied delta.
// A sale never takes stock below zero and a purchase never lifts it past MaxThreshold.
func (p *Product) Apply(a Action) int {
	switch a {
	case ActionSale:
		if p.Stock > 0 {
			p.Stock--
			return -1
		}
	case ActionPurchase:
		if p.Stock < p.MaxThreshold {
			p.Stock++
			return 1
		}
	}
	return 0
}
