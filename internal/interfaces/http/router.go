package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farmacore/ledger-api/internal/application/auth"
	"github.com/farmacore/ledger-api/internal/application/catalog"
	"github.com/farmacore/ledger-api/internal/application/ledger"
	"github.com/farmacore/ledger-api/internal/application/reporting"
	"github.com/farmacore/ledger-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CheckoutUC     *ledger.CheckoutUseCase
	ReversalUC     *ledger.ReversalUseCase
	AdjustUC       *ledger.AdjustUseCase
	AvailabilityUC *ledger.AvailabilityUseCase
	QueryUC        *ledger.QueryUseCase
	ReceiptUC      *ledger.ReceiptUseCase
	ProductUC      *catalog.ProductUseCase
	SummaryUC      *reporting.SummaryUseCase
	AuthUC         *auth.AuthUseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", RequireRole(entity.RoleAdmin, entity.RoleFarmaceutico), productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	// Lotes y ajustes de stock
	stockHandler := NewStockHandler(deps.AdjustUC, deps.AvailabilityUC, deps.QueryUC)
	products.Get("/:id/lots", stockHandler.ListLots)
	stock := protected.Group("/stock")
	stock.Post("/restock", RequireRole(entity.RoleAdmin, entity.RoleFarmaceutico), stockHandler.Restock)
	stock.Post("/unstock", RequireRole(entity.RoleAdmin, entity.RoleFarmaceutico), stockHandler.Unstock)
	stock.Post("/availability", stockHandler.CheckAvailability)

	// Venta
	checkoutHandler := NewCheckoutHandler(deps.CheckoutUC)
	protected.Post("/checkout", checkoutHandler.Checkout)

	// Transacciones, reversas y recibos
	transactions := protected.Group("/transactions")
	transactionHandler := NewTransactionHandler(deps.QueryUC, deps.ReceiptUC)
	reversalHandler := NewReversalHandler(deps.ReversalUC)
	transactions.Get("/", transactionHandler.List)
	transactions.Get("/:id", transactionHandler.GetByID)
	transactions.Get("/:id/receipt", transactionHandler.Receipt)
	transactions.Post("/:id/reverse", RequireRole(entity.RoleAdmin, entity.RoleFarmaceutico), reversalHandler.Reverse)

	// Bitácora
	audit := protected.Group("/audit")
	auditHandler := NewAuditHandler(deps.QueryUC)
	audit.Get("/products/:id", auditHandler.ListByProduct)
	audit.Get("/sources/:uuid", auditHandler.ListBySource)

	// Tablero
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.SummaryUC)
	dashboard.Get("/summary", dashboardHandler.Summary)
	dashboard.Get("/onhand", dashboardHandler.OnHand)
}
