package entity

import "fmt"

// Role es el conjunto cerrado de roles del sistema. Se define en código y se
// refleja en la tabla roles de cada tenant para los joins relacionales.
type Role string

const (
	RoleAdmin   Role = "ADMIN"   // control total de la instancia del tenant
	RoleSeller  Role = "SELLER"  // permisos operativos de POS
	RoleSpecial Role = "SPECIAL" // rol personalizable por el tenant
)

// IDs numéricos de los roles. Deben coincidir con el seed de la tabla roles.
const (
	RoleAdminID   = 1
	RoleSellerID  = 2
	RoleSpecialID = 3
)

// ID devuelve el identificador numérico del rol para relaciones de BD.
func (r Role) ID() int {
	switch r {
	case RoleAdmin:
		return RoleAdminID
	case RoleSeller:
		return RoleSellerID
	case RoleSpecial:
		return RoleSpecialID
	}
	return 0
}

// Parent devuelve el rol del que se heredan permisos, si existe la arista.
// La jerarquía es un solo nivel: ADMIN hereda de SELLER; SELLER y SPECIAL
// no heredan de nadie.
func (r Role) Parent() (Role, bool) {
	if r == RoleAdmin {
		return RoleSeller, true
	}
	return "", false
}

// Valid indica si el rol pertenece al conjunto cerrado.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSeller, RoleSpecial:
		return true
	}
	return false
}

// RoleFromID construye un Role desde su ID numérico.
func RoleFromID(id int) (Role, error) {
	switch id {
	case RoleAdminID:
		return RoleAdmin, nil
	case RoleSellerID:
		return RoleSeller, nil
	case RoleSpecialID:
		return RoleSpecial, nil
	}
	return "", fmt.Errorf("id de rol inválido: %d", id)
}

// RoleFromName construye un Role desde su nombre.
func RoleFromName(name string) (Role, error) {
	r := Role(name)
	if !r.Valid() {
		return "", fmt.Errorf("rol inválido: %q", name)
	}
	return r, nil
}
