package catalog_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmacore/ledger-api/internal/application/catalog"
	"github.com/farmacore/ledger-api/internal/application/dto"
	"github.com/farmacore/ledger-api/internal/domain"
	"github.com/farmacore/ledger-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake del repositorio de catálogo
// ──────────────────────────────────────────────────────────────────────────────

type memProductRepo struct {
	products []*entity.Product
}

func (r *memProductRepo) Create(p *entity.Product) error {
	r.products = append(r.products, p)
	return nil
}

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	return r.products, nil
}

// Search imita el ILIKE de la implementación real: substring sin distinguir
// mayúsculas sobre nombre, SKU y marca.
func (r *memProductRepo) Search(term string, limit, offset int) ([]*entity.Product, error) {
	t := strings.ToLower(term)
	var out []*entity.Product
	for _, p := range r.products {
		if strings.Contains(strings.ToLower(p.Name), t) ||
			strings.Contains(strings.ToLower(p.SKU), t) ||
			strings.Contains(strings.ToLower(p.Brand), t) {
			out = append(out, p)
		}
	}
	return out, nil
}

func seedProduct(r *memProductRepo, id, sku, name string) {
	r.products = append(r.products, &entity.Product{
		ID:        id,
		SKU:       sku,
		Name:      name,
		Unit:      "caja",
		Price:     decimal.NewFromFloat(100),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_SKUDuplicado(t *testing.T) {
	repo := &memProductRepo{}
	seedProduct(repo, "p1", "IBU-400", "Ibuprofeno 400mg")
	uc := catalog.NewProductUseCase(repo)

	_, err := uc.Create(dto.CreateProductRequest{SKU: "IBU-400", Name: "Otro", Unit: "caja", Price: 50})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestGetByID_Inexistente(t *testing.T) {
	uc := catalog.NewProductUseCase(&memProductRepo{})
	_, err := uc.GetByID("no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// La búsqueda no distingue tildes: "pediátrico" encuentra el producto
// guardado sin tilde, y viceversa no duplica resultados.
func TestSearch_SinDistinguirTildes(t *testing.T) {
	repo := &memProductRepo{}
	seedProduct(repo, "p1", "JAR-01", "Jarabe pediatrico")
	seedProduct(repo, "p2", "AMX-500", "Amoxicilina 500mg")
	uc := catalog.NewProductUseCase(repo)

	out, err := uc.Search("pediátrico", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "p1", out[0].ID)
}

func TestSearch_NoDuplicaResultados(t *testing.T) {
	repo := &memProductRepo{}
	seedProduct(repo, "p1", "JAR-01", "Jarabe pediatrico")
	uc := catalog.NewProductUseCase(repo)

	// El término sin tildes coincide tal cual y también en su forma plegada:
	// el resultado debe aparecer una sola vez.
	out, err := uc.Search("jarabe", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestSearch_TerminoVacio(t *testing.T) {
	uc := catalog.NewProductUseCase(&memProductRepo{})
	_, err := uc.Search("", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
