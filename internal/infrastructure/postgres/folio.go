package postgres

import (
	"fmt"
	"time"
)

// folioPrefix devuelve el prefijo de folio para una fecha: SALE-YYYYMMDD-.
func folioPrefix(date time.Time) string {
	return "SALE-" + date.Format("20060102") + "-"
}

// formatFolio arma el folio para una secuencia del día. El sufijo se rellena
// a 4 dígitos y crece sin truncarse a partir de 10000.
func formatFolio(date time.Time, seq int) string {
	return fmt.Sprintf("%s%04d", folioPrefix(date), seq)
}
