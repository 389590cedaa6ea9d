package storage

import (
	"encoding/base64"

	"github.com/knotara/storefront/internal/logger"
)

// DefaultDatabaseSlot is the historical key of the serialized image slot.
const DefaultDatabaseSlot = "knotara_sqlite_db"

// Bridge makes the full in-memory relational image durable across restarts.
// It is the sole reader/writer of the image slot. Saves are best-effort: a
// failed write leaves the in-memory engine authoritative for the rest of the
// process, it just will not survive a reload.
type Bridge struct {
	slot Slot
	key  string
}

// NewBridge creates a bridge over the given slot store.
func NewBridge(slot Slot, key string) *Bridge {
	if key == "" {
		key = DefaultDatabaseSlot
	}
	return &Bridge{slot: slot, key: key}
}

// Save encodes the raw image to base64 and overwrites the slot. Write
// failures are logged and swallowed.
func (b *Bridge) Save(image []byte) {
	if len(image) == 0 {
		return
	}
	encoded := base64.StdEncoding.EncodeToString(image)
	if err := b.slot.Set(b.key, encoded); err != nil {
		logger.Errorw("database_image_save_failed",
			"slot", b.key,
			"image_bytes", len(image),
			"error", err,
		)
	}
}

// Load reads and decodes the saved image. A missing or undecodable value
// yields nil, which callers treat as "no saved image, bootstrap fresh".
func (b *Bridge) Load() []byte {
	encoded, ok := b.slot.Get(b.key)
	if !ok || encoded == "" {
		return nil
	}
	image, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		logger.Warnw("database_image_corrupt",
			"slot", b.key,
			"error", err,
		)
		return nil
	}
	return image
}

// Clear removes the saved image so the next initialize bootstraps fresh.
func (b *Bridge) Clear() error {
	return b.slot.Remove(b.key)
}
