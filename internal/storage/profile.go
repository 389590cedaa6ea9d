package storage

import (
	"encoding/json"

	"github.com/knotara/storefront/internal/logger"
	"github.com/knotara/storefront/internal/models"
)

// DefaultProfileSlot is the historical key of the auth snapshot slot.
const DefaultProfileSlot = "knotara_auth_user"

// ProfileCache stores the authenticated user's public profile snapshot in
// its own slot, independent of the relational image.
type ProfileCache struct {
	slot Slot
	key  string
}

// NewProfileCache creates a profile cache over the given slot store.
func NewProfileCache(slot Slot, key string) *ProfileCache {
	if key == "" {
		key = DefaultProfileSlot
	}
	return &ProfileCache{slot: slot, key: key}
}

// Load returns the cached profile, or nil when absent or corrupt.
func (p *ProfileCache) Load() *models.AuthUser {
	raw, ok := p.slot.Get(p.key)
	if !ok || raw == "" {
		return nil
	}
	var user models.AuthUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		logger.Warnw("auth_profile_corrupt", "slot", p.key, "error", err)
		return nil
	}
	return &user
}

// Save overwrites the cached profile.
func (p *ProfileCache) Save(user models.AuthUser) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return p.slot.Set(p.key, string(raw))
}

// Clear removes the cached profile (logout).
func (p *ProfileCache) Clear() error {
	return p.slot.Remove(p.key)
}
