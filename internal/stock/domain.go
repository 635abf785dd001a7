// Package stock owns the mill stock quantity held per product. Every
// movement goes through the atomic adjust statement in this package;
// production and invoicing never read-modify-write the balance.
package stock

import (
	"errors"
	"time"
)

// Level is the on-hand mill stock for one product.
type Level struct {
	ProductID   int64     `json:"product_id"`
	ProductCode string    `json:"product_code"`
	ProductName string    `json:"product_name"`
	MillStock   float64   `json:"mill_stock"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ErrInsufficientStock is returned when a decrement would take mill stock
// below zero and the negative-stock policy is off.
var ErrInsufficientStock = errors.New("stock: insufficient mill stock")

// ErrInvalidQuantity indicates a non-positive movement quantity.
var ErrInvalidQuantity = errors.New("stock: quantity must be positive")

// ErrProductNotFound indicates the product row does not exist.
var ErrProductNotFound = errors.New("stock: product not found")
