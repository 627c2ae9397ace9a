package auth

import "sync"

// SessionPermissionCache guarda el set de permisos efectivos por sesión.
// Es un singleton de proceso compartido entre peticiones; la invalidación
// es explícita (logout o cambio de asignaciones de rol).
type SessionPermissionCache struct {
	mu       sync.RWMutex
	sessions map[string]map[string]struct{}
}

// NewSessionPermissionCache crea un caché vacío.
func NewSessionPermissionCache() *SessionPermissionCache {
	return &SessionPermissionCache{sessions: make(map[string]map[string]struct{})}
}

// Get devuelve el set cacheado para la sesión, si existe.
func (c *SessionPermissionCache) Get(sessionID string) (map[string]struct{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	set, ok := c.sessions[sessionID]
	return set, ok
}

// Put guarda el set de permisos de la sesión.
func (c *SessionPermissionCache) Put(sessionID string, slugs []string) {
	set := make(map[string]struct{}, len(slugs))
	for _, s := range slugs {
		set[s] = struct{}{}
	}
	c.mu.Lock()
	c.sessions[sessionID] = set
	c.mu.Unlock()
}

// Invalidate elimina el set de una sesión (logout, cambio de rol).
func (c *SessionPermissionCache) Invalidate(sessionID string) {
	c.mu.Lock()
	delete(c.sessions, sessionID)
	c.mu.Unlock()
}

// InvalidateAll vacía el caché completo, por ejemplo tras modificar las
// asignaciones de un rol que afectan a sesiones ya abiertas.
func (c *SessionPermissionCache) InvalidateAll() {
	c.mu.Lock()
	c.sessions = make(map[string]map[string]struct{})
	c.mu.Unlock()
}
