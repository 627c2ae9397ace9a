package repository

import "github.com/aurasoft-io/aura-pos/internal/domain/entity"

// UserRepository puerto de persistencia de usuarios del tenant activo.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	// TouchLastAccess actualiza la marca de último acceso tras un login exitoso.
	TouchLastAccess(id string) error
}
