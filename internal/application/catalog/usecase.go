package catalog

import (
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/farmacore/ledger-api/internal/application/dto"
	"github.com/farmacore/ledger-api/internal/domain"
	"github.com/farmacore/ledger-api/internal/domain/entity"
	"github.com/farmacore/ledger-api/internal/domain/repository"
)

// ProductUseCase alta y consulta del catálogo. El catálogo no lleva
// existencias: esas viven en los lotes.
type ProductUseCase struct {
	productRepo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(productRepo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo}
}

// Create da de alta un producto. El SKU es único: repetirlo es ErrDuplicate.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	existing, err := uc.productRepo.GetBySKU(in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Unit:        in.Unit,
		Category:    in.Category,
		Brand:       in.Brand,
		Price:       decimal.NewFromFloat(in.Price),
		Supplier:    in.Supplier,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID devuelve un producto o ErrNotFound.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// List devuelve una página del catálogo.
func (uc *ProductUseCase) List(page dto.PageRequest) ([]*dto.ProductResponse, error) {
	page.DefaultPage()
	products, err := uc.productRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toProductResponses(products), nil
}

// Search busca por nombre, SKU o marca, sin distinguir tildes: además del
// término literal se consulta su forma sin diacríticos ("jarabe pediátrico"
// y "jarabe pediatrico" devuelven lo mismo).
func (uc *ProductUseCase) Search(term string, page dto.PageRequest) ([]*dto.ProductResponse, error) {
	if term == "" {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	products, err := uc.productRepo.Search(term, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}

	folded := foldDiacritics(term)
	if folded != term {
		extra, err := uc.productRepo.Search(folded, page.Limit, page.Offset)
		if err != nil {
			return nil, err
		}
		products = mergeByID(products, extra, page.Limit)
	}
	return toProductResponses(products), nil
}

// foldDiacritics elimina las marcas diacríticas de un término de búsqueda
// (NFD → quitar combining marks → NFC).
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// mergeByID une dos resultados eliminando duplicados por ID, respetando el
// límite de página.
func mergeByID(a, b []*entity.Product, limit int) []*entity.Product {
	seen := make(map[string]struct{}, len(a))
	out := make([]*entity.Product, 0, len(a)+len(b))
	for _, p := range a {
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	for _, p := range b {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		out = append(out, p)
		if len(out) >= limit {
			break
		}
	}
	return out
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Unit:        p.Unit,
		Category:    p.Category,
		Brand:       p.Brand,
		Price:       p.Price.StringFixed(2),
		Supplier:    p.Supplier,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductResponses(products []*entity.Product) []*dto.ProductResponse {
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}
