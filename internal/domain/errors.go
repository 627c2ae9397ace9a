package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura). Los errores con
// detalle estructurado se modelan como tipos que envuelven su centinela, de
// modo que errors.Is siga funcionando en los handlers.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrSaleNotFound       = errors.New("venta no encontrada")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrValidation         = errors.New("datos de entrada inválidos")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrAccountDisabled    = errors.New("cuenta desactivada")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrPaymentMismatch    = errors.New("los pagos no coinciden con el total")
	ErrInvalidTenantID    = errors.New("identificador de tenant inválido")
	ErrTenantNotFound     = errors.New("tenant no encontrado")
	ErrTenantSuspended    = errors.New("tenant suspendido")
	ErrTenantExists       = errors.New("el tenant ya existe")
)

// UnauthorizedError lleva el permiso faltante, el rol activo y el usuario
// actuante para fines de auditoría de seguridad.
type UnauthorizedError struct {
	Slug   string // permiso requerido
	Role   string // rol activo en la sesión
	UserID string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("permiso requerido: %q (rol activo: %s, usuario: %s)", e.Slug, e.Role, e.UserID)
}

func (e *UnauthorizedError) Unwrap() error { return ErrUnauthorized }

// InsufficientStockError lleva disponible vs. solicitado para que el caller
// pueda corregir y reenviar.
type InsufficientStockError struct {
	ProductID string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s: disponible %d, solicitado %d",
		e.ProductID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// PaymentMismatchError lleva el total esperado y la suma de pagos recibida.
type PaymentMismatchError struct {
	Expected decimal.Decimal // total de la venta
	Paid     decimal.Decimal // suma de los pagos
}

func (e *PaymentMismatchError) Error() string {
	return fmt.Sprintf("la suma de pagos (%s) no coincide con el total de la venta (%s)",
		e.Paid.StringFixed(2), e.Expected.StringFixed(2))
}

func (e *PaymentMismatchError) Unwrap() error { return ErrPaymentMismatch }

// SaleProcessingError envuelve fallas de infraestructura durante una venta.
// El mensaje hacia el caller es genérico; la causa original queda disponible
// vía Unwrap solo para logs del servidor.
type SaleProcessingError struct {
	Cause error
}

func (e *SaleProcessingError) Error() string { return "error al procesar la venta" }

func (e *SaleProcessingError) Unwrap() error { return e.Cause }
