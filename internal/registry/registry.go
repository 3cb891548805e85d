// Package registry owns the persisted mapping between the 8 soundboard
// slots and the asset files they reference. Every mutation is a full
// load-modify-save cycle under one lock; the document on disk is always
// either the previous or the next complete state, never a partial write.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bardbox/bardbox/internal/asset"
)

// SlotCount is fixed; slots are never created or destroyed at runtime.
const SlotCount = 8

var ErrStorageUnavailable = errors.New("mapping storage unavailable")

// Slot is one addressable soundboard position. Filename and Icon are nil
// when the slot has no asset assigned.
type Slot struct {
	ID       int     `json:"id"`
	Label    string  `json:"label"`
	Filename *string `json:"filename"`
	Icon     *string `json:"icon"`
}

// Document is the full persisted state of all slots, in id order.
type Document struct {
	Slots []Slot `json:"slots"`
}

// Registry reads and writes the mapping document. It is safe for
// concurrent use.
type Registry struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Registry {
	return &Registry{path: path}
}

// DefaultLabel is the display label of an unassigned slot.
func DefaultLabel(id int) string {
	return fmt.Sprintf("Slot %d", id)
}

func defaultDocument() *Document {
	doc := &Document{Slots: make([]Slot, 0, SlotCount)}
	for id := 1; id <= SlotCount; id++ {
		doc.Slots = append(doc.Slots, Slot{ID: id, Label: DefaultLabel(id)})
	}
	return doc
}

// Load returns the current document, creating and persisting the default
// one when no document exists yet.
func (r *Registry) Load() (*Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// Save rewrites the whole document.
func (r *Registry) Save(doc *Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(doc)
}

// UpdateSlot applies a partial patch to one slot. An unknown slot id is a
// silent no-op, matching the behavior the web UI was built against.
func (r *Registry) UpdateSlot(id int, patch Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return err
	}

	for i := range doc.Slots {
		if doc.Slots[i].ID != id {
			continue
		}
		patch.apply(&doc.Slots[i])
	}

	return r.save(doc)
}

// ClearSlot resets a slot to its unassigned state.
func (r *Registry) ClearSlot(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return err
	}

	for i := range doc.Slots {
		if doc.Slots[i].ID != id {
			continue
		}
		doc.Slots[i].Filename = nil
		doc.Slots[i].Icon = nil
		doc.Slots[i].Label = DefaultLabel(id)
	}

	return r.save(doc)
}

// RenameReferences rewrites every reference to oldName as newName. Called
// together with the physical rename so slots never keep the stale name.
func (r *Registry) RenameReferences(t asset.Type, oldName, newName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return err
	}

	for i := range doc.Slots {
		ref := referenceFor(&doc.Slots[i], t)
		if *ref != nil && **ref == oldName {
			renamed := newName
			*ref = &renamed
		}
	}

	return r.save(doc)
}

// ClearReferences removes every reference to name. Called together with the
// physical delete.
func (r *Registry) ClearReferences(t asset.Type, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return err
	}

	for i := range doc.Slots {
		ref := referenceFor(&doc.Slots[i], t)
		if *ref != nil && **ref == name {
			*ref = nil
		}
	}

	return r.save(doc)
}

func referenceFor(s *Slot, t asset.Type) **string {
	if t == asset.TypeIcon {
		return &s.Icon
	}
	return &s.Filename
}

func (r *Registry) load() (*Document, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		doc := defaultDocument()
		if err := r.save(doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return &doc, nil
}

// save writes to a temp file in the same directory and renames it over the
// document, so a concurrent reader sees the old or new state, never a torn
// one.
func (r *Registry) save(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".mappings-*.json")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return nil
}
