package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aurasoft-io/aura-pos/internal/application/auth"
	"github.com/aurasoft-io/aura-pos/internal/application/tenant"
	"github.com/aurasoft-io/aura-pos/internal/infrastructure/pdf"
	"github.com/aurasoft-io/aura-pos/internal/infrastructure/postgres"
	"github.com/aurasoft-io/aura-pos/pkg/logger"
)

// RouterDeps dependencias para el router. Los repositorios por tenant se
// construyen dentro de los handlers, sobre la conexión que ata el
// TenantMiddleware.
type RouterDeps struct {
	Registry        *postgres.SchemaRegistry
	PermissionCache *auth.SessionPermissionCache
	TenantUC        *tenant.UseCase
	JWTCfg          auth.JWTConfig
	ProvisionToken  string
	Log             *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Administración de tenants (fuera del contexto de tenant, token de operación)
	tenants := api.Group("/tenants")
	tenantHandler := NewTenantHandler(deps.TenantUC, deps.ProvisionToken)
	tenants.Use(tenantHandler.AdminTokenMiddleware())
	tenants.Post("/", tenantHandler.Provision)
	tenants.Get("/", tenantHandler.List)
	tenants.Patch("/:id/state", tenantHandler.SetState)
	tenants.Delete("/:id", tenantHandler.Deprovision)

	// Todo lo demás corre dentro de un tenant (X-Tenant-ID)
	tenantScoped := api.Group("/", TenantMiddleware(deps.Registry, deps.Log))

	// Auth (público dentro del tenant)
	authHandler := NewAuthHandler(deps.JWTCfg, deps.Log)
	tenantScoped.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token del tenant)
	protected := tenantScoped.Group("/", AuthMiddleware(deps.JWTCfg.Secret))

	// Ventas
	saleHandler := NewSaleHandler(deps.PermissionCache, pdf.NewReceiptGenerator(), deps.Log)
	salesGroup := protected.Group("/sales")
	salesGroup.Post("/", saleHandler.ProcessSale)
	salesGroup.Get("/", saleHandler.ListSales)
	salesGroup.Get("/:id", saleHandler.GetSale)
	salesGroup.Get("/:id/receipt", saleHandler.GetReceipt)

	// Asignaciones rol-permiso
	roleHandler := NewRoleHandler(deps.PermissionCache, deps.Log)
	rolesGroup := protected.Group("/roles")
	rolesGroup.Post("/:role/permissions", roleHandler.AssignPermission)
	rolesGroup.Delete("/:role/permissions/:slug", roleHandler.RevokePermission)

	// Inventario y catálogo
	inventoryHandler := NewInventoryHandler(deps.PermissionCache, deps.Log)
	invGroup := protected.Group("/inventory")
	invGroup.Post("/restock", inventoryHandler.Restock)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)
	invGroup.Get("/products/:id/movements", inventoryHandler.Movements)
	protected.Get("/products", inventoryHandler.ListProducts)
}
