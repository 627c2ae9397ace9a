package repository

import "github.com/aurasoft-io/aura-pos/internal/domain/entity"

// TenantRepository puerto del catálogo compartido de tenants. Vive fuera de
// los esquemas de tenant (esquema public) y es la única tabla compartida.
type TenantRepository interface {
	Create(tenant *entity.Tenant) error
	Get(identifier string) (*entity.Tenant, error)
	List() ([]*entity.Tenant, error)
	UpdateState(identifier, state string) error
	Delete(identifier string) error
}
