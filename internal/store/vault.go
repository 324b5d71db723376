package store

import (
	"fmt"
	"slices"
	"strings"

	"github.com/davidbloss/wghub/internal/model"
)

// AddVaultItem validates and inserts a shared credential.
func (s *Store) AddVaultItem(label, value string, typ model.VaultType, isSecure bool, customIcon string) (model.VaultItem, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return model.VaultItem{}, fmt.Errorf("%w: label is required", ErrValidation)
	}
	if value == "" {
		return model.VaultItem{}, fmt.Errorf("%w: value is required", ErrValidation)
	}
	if !model.ValidVaultType(typ) {
		return model.VaultItem{}, fmt.Errorf("%w: unknown vault type %q", ErrValidation, typ)
	}

	s.mu.Lock()
	v := model.VaultItem{
		ID:         s.newID(),
		WGID:       s.wgID,
		Label:      label,
		Value:      value,
		Type:       typ,
		IsSecure:   isSecure,
		CustomIcon: customIcon,
		CreatedAt:  s.now(),
		UpdatedAt:  s.stamp(),
	}
	s.vault = append(s.vault, v)
	s.mu.Unlock()

	s.emit(upsertEvent(model.EntityVaultItem, v.ID, v.UpdatedAt, v))
	return v, nil
}

// UpdateVaultItem replaces the stored record with v, keyed by ID. Updating
// an absent id is a no-op.
func (s *Store) UpdateVaultItem(v model.VaultItem) (model.VaultItem, error) {
	v.Label = strings.TrimSpace(v.Label)
	if v.Label == "" {
		return model.VaultItem{}, fmt.Errorf("%w: label is required", ErrValidation)
	}
	if v.Value == "" {
		return model.VaultItem{}, fmt.Errorf("%w: value is required", ErrValidation)
	}
	if !model.ValidVaultType(v.Type) {
		return model.VaultItem{}, fmt.Errorf("%w: unknown vault type %q", ErrValidation, v.Type)
	}

	s.mu.Lock()
	i := s.vaultIndex(v.ID)
	if i < 0 {
		s.mu.Unlock()
		return v, nil
	}
	prev := s.vault[i]
	v.WGID = prev.WGID
	v.CreatedAt = prev.CreatedAt
	v.UpdatedAt = s.stamp()
	s.vault[i] = v
	s.mu.Unlock()

	s.emit(upsertEvent(model.EntityVaultItem, v.ID, v.UpdatedAt, v))
	return v, nil
}

// RemoveVaultItem deletes a credential. Removing an absent id is a no-op.
func (s *Store) RemoveVaultItem(id string) {
	s.mu.Lock()
	i := s.vaultIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.vault = slices.Delete(s.vault, i, i+1)
	ts := s.stamp()
	s.mu.Unlock()

	s.emit(deleteEvent(model.EntityVaultItem, id, ts))
}

// VaultItem returns the credential with the given id.
func (s *Store) VaultItem(id string) (model.VaultItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.vaultIndex(id); i >= 0 {
		return s.vault[i], true
	}
	return model.VaultItem{}, false
}

// VaultItems returns all credentials in creation order. The slice is a
// copy.
func (s *Store) VaultItems() []model.VaultItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.vault)
}

func (s *Store) vaultIndex(id string) int {
	return slices.IndexFunc(s.vault, func(v model.VaultItem) bool { return v.ID == id })
}
