package repository

import "github.com/farmacore/ledger-api/internal/domain/entity"

// ProductRepository define el puerto del catálogo de productos. Para el motor
// de inventario el catálogo es fuente de solo lectura de atributos
// descriptivos; Create existe para poblarlo desde la administración.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
	// Search busca por nombre o SKU, sin distinguir mayúsculas ni tildes.
	Search(term string, limit, offset int) ([]*entity.Product, error)
}
