package repository

// PermissionRepository puerto de lectura de permisos por rol. Los permisos
// solo se asignan a roles, nunca a usuarios.
type PermissionRepository interface {
	// ListSlugsByRole devuelve los slugs asignados directamente al rol
	// indicado (sin resolver herencia; eso es trabajo del resolver).
	ListSlugsByRole(roleID int) ([]string, error)
	// Assign y Revoke modifican la asignación rol-permiso. Tras usarlos, el
	// caller debe invalidar los cachés de sesión afectados.
	Assign(roleID int, slug string) error
	Revoke(roleID int, slug string) error
}
