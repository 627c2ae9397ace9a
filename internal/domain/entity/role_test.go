package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_IDsEstables(t *testing.T) {
	// Los IDs numéricos están persistidos en la tabla roles; no pueden cambiar.
	assert.Equal(t, 1, RoleAdmin.ID(), "ADMIN debe mapear al ID 1")
	assert.Equal(t, 2, RoleSeller.ID(), "SELLER debe mapear al ID 2")
	assert.Equal(t, 3, RoleSpecial.ID(), "SPECIAL debe mapear al ID 3")
}

func TestRole_HerenciaUnSoloNivel(t *testing.T) {
	parent, ok := RoleAdmin.Parent()
	assert.True(t, ok, "ADMIN debe tener padre")
	assert.Equal(t, RoleSeller, parent, "ADMIN hereda de SELLER")

	_, ok = RoleSeller.Parent()
	assert.False(t, ok, "SELLER no hereda de nadie")

	_, ok = RoleSpecial.Parent()
	assert.False(t, ok, "SPECIAL no hereda de nadie")
}

func TestRoleFromID(t *testing.T) {
	r, err := RoleFromID(1)
	assert.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = RoleFromID(99)
	assert.Error(t, err, "un ID desconocido no debe resolver a rol")
}

func TestRoleFromName(t *testing.T) {
	r, err := RoleFromName("SELLER")
	assert.NoError(t, err)
	assert.Equal(t, RoleSeller, r)

	_, err = RoleFromName("superuser")
	assert.Error(t, err)
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleSpecial.Valid())
	assert.False(t, Role("manager").Valid(), "un rol fuera del conjunto cerrado es inválido")
}

func TestValidPaymentMethod(t *testing.T) {
	for _, m := range []string{PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodCheck} {
		assert.True(t, ValidPaymentMethod(m), "método %s debe ser válido", m)
	}
	assert.False(t, ValidPaymentMethod("crypto"), "método fuera del conjunto cerrado")
	assert.False(t, ValidPaymentMethod(""))
}
