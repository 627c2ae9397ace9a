package dto

import "time"

// ProvisionTenantRequest entrada para aprovisionar un tenant nuevo con su admin inicial.
type ProvisionTenantRequest struct {
	TenantID      string `json:"tenant_id" validate:"required"`
	AdminUsername string `json:"admin_username" validate:"required"`
	AdminPassword string `json:"admin_password" validate:"required,min=8"`
	AdminEmail    string `json:"admin_email" validate:"required,email"`
	AdminFullName string `json:"admin_full_name"`
}

// TenantResponse tenant en respuestas.
type TenantResponse struct {
	Identifier string    `json:"identifier"`
	SchemaName string    `json:"schema_name"`
	State      string    `json:"state"`
	CreatedAt  time.Time `json:"created_at"`
}
