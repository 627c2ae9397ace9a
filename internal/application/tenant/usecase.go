package tenant

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/aurasoft-io/aura-pos/internal/application/dto"
	"github.com/aurasoft-io/aura-pos/internal/domain"
	"github.com/aurasoft-io/aura-pos/internal/domain/entity"
	"github.com/aurasoft-io/aura-pos/internal/domain/repository"
	"github.com/aurasoft-io/aura-pos/internal/infrastructure/postgres"
	"github.com/aurasoft-io/aura-pos/pkg/logger"
)

// UseCase aprovisionamiento y administración de tenants. Opera sobre el
// catálogo compartido, fuera del contexto de cualquier tenant.
type UseCase struct {
	registry   *postgres.SchemaRegistry
	catalog    repository.TenantRepository
	bcryptCost int
	log        *logger.Logger
}

// NewUseCase construye el caso de uso de tenants.
func NewUseCase(registry *postgres.SchemaRegistry, catalog repository.TenantRepository, bcryptCost int, log *logger.Logger) *UseCase {
	return &UseCase{registry: registry, catalog: catalog, bcryptCost: bcryptCost, log: log}
}

// Provision crea el esquema del tenant con su admin inicial. La contraseña
// se hashea aquí; el esquema jamás recibe texto claro.
func (uc *UseCase) Provision(ctx context.Context, in dto.ProvisionTenantRequest) (*dto.TenantResponse, error) {
	if in.TenantID == "" || in.AdminUsername == "" || in.AdminEmail == "" {
		return nil, domain.ErrValidation
	}
	if len(in.AdminPassword) < 8 {
		return nil, domain.ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.AdminPassword), uc.bcryptCost)
	if err != nil {
		return nil, err
	}

	t, err := uc.registry.Provision(ctx, in.TenantID, postgres.AdminSeed{
		Username:     in.AdminUsername,
		PasswordHash: string(hash),
		Email:        in.AdminEmail,
		FullName:     in.AdminFullName,
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("tenant", t.Identifier).Str("schema", t.SchemaName).Msg("tenant aprovisionado")
	return toTenantResponse(t), nil
}

// Deprovision elimina el esquema del tenant y su entrada de catálogo.
// Destructivo e irreversible.
func (uc *UseCase) Deprovision(ctx context.Context, tenantID string) error {
	return uc.registry.Deprovision(ctx, tenantID)
}

// SetState cambia el estado del tenant en el catálogo (active, suspended,
// cancelled). Suspender corta el acceso en el siguiente Bind.
func (uc *UseCase) SetState(tenantID, state string) error {
	switch state {
	case entity.TenantStateActive, entity.TenantStateSuspended, entity.TenantStateCancelled:
	default:
		return domain.ErrValidation
	}
	return uc.catalog.UpdateState(tenantID, state)
}

// List devuelve todos los tenants del catálogo.
func (uc *UseCase) List() ([]*dto.TenantResponse, error) {
	tenants, err := uc.catalog.List()
	if err != nil {
		return nil, err
	}
	out := make([]*dto.TenantResponse, 0, len(tenants))
	for _, t := range tenants {
		out = append(out, toTenantResponse(t))
	}
	return out, nil
}

func toTenantResponse(t *entity.Tenant) *dto.TenantResponse {
	return &dto.TenantResponse{
		Identifier: t.Identifier,
		SchemaName: t.SchemaName,
		State:      t.State,
		CreatedAt:  t.CreatedAt,
	}
}
