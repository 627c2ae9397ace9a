package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurasoft-io/aura-pos/internal/domain"
)

func TestSchemaName_Sanitiza(t *testing.T) {
	cases := []struct {
		tenantID string
		want     string
	}{
		{"acme", "tenant_acme"},
		{"ACME", "tenant_acme"},
		{"tienda_42", "tenant_tienda_42"},
		{"My-Store!", "tenant_mystore"},
		{"a.b c", "tenant_abc"},
		{"ñandú", "tenant_and"},
	}
	for _, tc := range cases {
		got, err := SchemaName(tc.tenantID)
		require.NoError(t, err, "tenant %q", tc.tenantID)
		assert.Equal(t, tc.want, got, "tenant %q", tc.tenantID)
	}
}

func TestSchemaName_IdentificadorVacio(t *testing.T) {
	for _, id := range []string{"", "!!!", "---", "¿?"} {
		_, err := SchemaName(id)
		assert.ErrorIs(t, err, domain.ErrInvalidTenantID, "tenant %q debe ser inválido", id)
	}
}

func TestSchemaName_NoInyectaSQL(t *testing.T) {
	got, err := SchemaName(`acme"; DROP SCHEMA public; --`)
	require.NoError(t, err)
	// La sanitización elimina todo lo que no sea [a-z0-9_].
	assert.Equal(t, "tenant_acmedropschemapublic", got)
}
