// Package library coordinates the asset stores, the mapping registry and
// the playback controller. The composite rename and delete operations live
// here so a physical file change and its reference update always happen as
// one unit.
package library

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/bardbox/bardbox/internal/asset"
	"github.com/bardbox/bardbox/internal/playback"
	"github.com/bardbox/bardbox/internal/registry"
)

// Manager owns the asset lifecycle.
type Manager struct {
	mu       sync.Mutex
	registry *registry.Registry
	music    *asset.Store
	icons    *asset.Store
	playback *playback.Controller
}

// Snapshot is the full library state served to the UI.
type Snapshot struct {
	Slots []registry.Slot `json:"slots"`
	Music []string        `json:"music"`
	Icons []string        `json:"icons"`
}

func New(reg *registry.Registry, music, icons *asset.Store, pb *playback.Controller) *Manager {
	return &Manager{registry: reg, music: music, icons: icons, playback: pb}
}

// Snapshot lists the slots and both asset directories.
func (m *Manager) Snapshot() (*Snapshot, error) {
	doc, err := m.registry.Load()
	if err != nil {
		return nil, err
	}

	music, err := m.music.List()
	if err != nil {
		return nil, err
	}

	icons, err := m.icons.List()
	if err != nil {
		return nil, err
	}

	return &Snapshot{Slots: doc.Slots, Music: music, Icons: icons}, nil
}

// UpdateSlot applies a partial patch to one slot mapping.
func (m *Manager) UpdateSlot(id int, patch registry.Patch) error {
	return m.registry.UpdateSlot(id, patch)
}

// ClearSlot resets one slot mapping to its defaults.
func (m *Manager) ClearSlot(id int) error {
	return m.registry.ClearSlot(id)
}

// Upload stores a new asset under the supplied name. New assets start
// unmapped, so the registry is not involved.
func (m *Manager) Upload(t asset.Type, name string, r io.Reader) error {
	if err := m.storeFor(t).Save(name, r); err != nil {
		return err
	}
	slog.Info("Asset uploaded", "type", t, "name", name)
	return nil
}

// Rename moves an asset and rewrites every slot reference to it. The two
// steps run under one lock; skipping the reference update would leave slots
// pointing at a name that no longer exists.
func (m *Manager) Rename(t asset.Type, oldName, newName string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	resolved, err := m.storeFor(t).Rename(oldName, newName)
	if err != nil {
		return "", err
	}

	if err := m.registry.RenameReferences(t, oldName, resolved); err != nil {
		return "", fmt.Errorf("renamed %s but failed to update references: %w", oldName, err)
	}

	slog.Info("Asset renamed", "type", t, "old", oldName, "new", resolved)
	return resolved, nil
}

// Delete removes an asset and clears every slot reference to it. Music is
// unloaded from the playback controller first so no open handle pins the
// file and no looping track keeps reading a vanished asset.
func (m *Manager) Delete(t asset.Type, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	store := m.storeFor(t)
	if !store.Exists(name) {
		return fmt.Errorf("%w: %s", asset.ErrNotFound, name)
	}

	if t == asset.TypeMusic {
		m.playback.Unload()
	}

	if err := store.Delete(name); err != nil {
		return err
	}

	if err := m.registry.ClearReferences(t, name); err != nil {
		return fmt.Errorf("deleted %s but failed to clear references: %w", name, err)
	}

	slog.Info("Asset deleted", "type", t, "name", name)
	return nil
}

func (m *Manager) storeFor(t asset.Type) *asset.Store {
	if t == asset.TypeIcon {
		return m.icons
	}
	return m.music
}
