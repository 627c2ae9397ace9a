package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var folioDate = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

func TestFolioPrefix(t *testing.T) {
	assert.Equal(t, "SALE-20260315-", folioPrefix(folioDate))
}

func TestFormatFolio_RellenaACuatroDigitos(t *testing.T) {
	assert.Equal(t, "SALE-20260315-0001", formatFolio(folioDate, 1),
		"la primera venta del día lleva secuencia 0001")
	assert.Equal(t, "SALE-20260315-0043", formatFolio(folioDate, 43))
	assert.Equal(t, "SALE-20260315-9999", formatFolio(folioDate, 9999))
}

func TestFormatFolio_CreceMasAllaDe9999(t *testing.T) {
	// El sufijo no se trunca: la venta 10000 del día no colisiona con la 9999.
	assert.Equal(t, "SALE-20260315-10000", formatFolio(folioDate, 10000))
	assert.Equal(t, "SALE-20260315-10001", formatFolio(folioDate, 10001))
}

func TestFormatFolio_CambiaConElDia(t *testing.T) {
	assert.Equal(t, "SALE-20260316-0001", formatFolio(folioDate.Add(24*time.Hour), 1),
		"cada día arranca su propia secuencia")
}
