package entity

import "time"

// User representa un usuario dentro del esquema de un tenant. Tiene
// exactamente un rol activo a la vez; los permisos viven en el rol, nunca
// en el usuario.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt, nunca en claro después de persistir
	FullName     string
	Role         Role
	Active       bool
	LastAccessAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
