package reporting

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/farmacore/ledger-api/internal/application/dto"
	"github.com/farmacore/ledger-api/internal/domain/repository"
)

// SummaryCache cachea el resumen del tablero ya armado. La implementación
// Redis vive en infrastructure; una falla del cache nunca tumba la consulta.
type SummaryCache interface {
	Get(ctx context.Context, key string) (*dto.DashboardSummaryDTO, bool, error)
	Set(ctx context.Context, key string, value *dto.DashboardSummaryDTO, ttl time.Duration) error
}

const (
	summaryCacheKey = "dashboard:summary"
	summaryCacheTTL = 5 * time.Minute

	expiryWindowDays  = 90 // lotes que vencen dentro de 90 días son alerta
	lowStockThreshold = 10
	widgetLimit       = 5
)

// SummaryUseCase arma el resumen del tablero: totales de inventario, lotes
// por vencer y productos con poca existencia.
type SummaryUseCase struct {
	summaryRepo repository.SummaryRepository
	cache       SummaryCache // opcional; nil desactiva el cache
}

// NewSummaryUseCase construye el caso de uso.
func NewSummaryUseCase(summaryRepo repository.SummaryRepository, cache SummaryCache) *SummaryUseCase {
	return &SummaryUseCase{summaryRepo: summaryRepo, cache: cache}
}

// GetSummary devuelve el resumen, del cache si está fresco.
func (uc *SummaryUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	if uc.cache != nil {
		cached, ok, err := uc.cache.Get(ctx, summaryCacheKey)
		if err != nil {
			log.Warn().Err(err).Msg("tablero: cache ilegible, se recalcula")
		} else if ok {
			return cached, nil
		}
	}

	now := time.Now()
	totals, err := uc.summaryRepo.GetTotals(ctx)
	if err != nil {
		return nil, err
	}
	expiring, err := uc.summaryRepo.GetExpiringLots(ctx, now.AddDate(0, 0, expiryWindowDays), widgetLimit)
	if err != nil {
		return nil, err
	}
	lowStock, err := uc.summaryRepo.GetLowStock(ctx, lowStockThreshold, widgetLimit)
	if err != nil {
		return nil, err
	}

	summary := &dto.DashboardSummaryDTO{
		ProductsTracked: totals.ProductsTracked,
		UnitsOnHand:     totals.UnitsOnHand,
		InventoryValue:  totals.InventoryValue,
		ExpiringSoon:    make([]dto.ExpiringLotDTO, 0, len(expiring)),
		LowStock:        make([]dto.LowStockDTO, 0, len(lowStock)),
		DateLabel:       now.Format("2006-01-02"),
	}
	for _, lot := range expiring {
		summary.ExpiringSoon = append(summary.ExpiringSoon, dto.ExpiringLotDTO{
			LotID:       lot.LotID,
			ProductID:   lot.ProductID,
			ProductName: lot.Name,
			Expiry:      lot.Expiry.Format("2006-01-02"),
			Quantity:    lot.Quantity,
		})
	}
	for _, p := range lowStock {
		summary.LowStock = append(summary.LowStock, dto.LowStockDTO{
			ProductID:   p.ProductID,
			ProductName: p.Name,
			OnHand:      p.OnHand,
			Threshold:   lowStockThreshold,
		})
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, summaryCacheKey, summary, summaryCacheTTL); err != nil {
			log.Warn().Err(err).Msg("tablero: no se pudo escribir el cache")
		}
	}
	return summary, nil
}

// ListOnHand existencia por producto, los de menor existencia primero.
// Siempre va a la BD: a diferencia del resumen, este listado se pagina.
func (uc *SummaryUseCase) ListOnHand(ctx context.Context, page dto.PageRequest) ([]dto.ProductOnHandDTO, error) {
	page.DefaultPage()
	rows, err := uc.summaryRepo.GetOnHand(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductOnHandDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ProductOnHandDTO{
			ProductID: r.ProductID,
			SKU:       r.SKU,
			Name:      r.Name,
			Unit:      r.Unit,
			OnHand:    r.OnHand,
			LotCount:  r.LotCount,
		})
	}
	return out, nil
}
