package dto

import "time"

// CreateProductRequest entrada para dar de alta un producto en el catálogo.
type CreateProductRequest struct {
	SKU         string  `json:"sku" validate:"required,max=60"`
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	Unit        string  `json:"unit" validate:"required,max=40"`
	Category    string  `json:"category" validate:"omitempty,max=100"`
	Brand       string  `json:"brand" validate:"omitempty,max=100"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Supplier    string  `json:"supplier" validate:"omitempty,max=200"`
}

// ProductResponse salida de un producto del catálogo.
type ProductResponse struct {
	ID          string    `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Unit        string    `json:"unit"`
	Category    string    `json:"category,omitempty"`
	Brand       string    `json:"brand,omitempty"`
	Price       string    `json:"price"`
	Supplier    string    `json:"supplier,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
