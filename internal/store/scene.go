package store

import (
	"fmt"
	"slices"
	"strings"

	"github.com/davidbloss/wghub/internal/model"
)

// AddScene validates and inserts a smart scene.
func (s *Store) AddScene(name, emoji, description, notificationText string) (model.SmartScene, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.SmartScene{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if emoji == "" {
		emoji = "💡"
	}

	s.mu.Lock()
	sc := model.SmartScene{
		ID:               s.newID(),
		WGID:             s.wgID,
		Name:             name,
		Emoji:            emoji,
		Description:      description,
		NotificationText: notificationText,
		CreatedAt:        s.now(),
		UpdatedAt:        s.stamp(),
	}
	s.scenes = append(s.scenes, sc)
	s.mu.Unlock()

	s.emit(upsertEvent(model.EntitySmartScene, sc.ID, sc.UpdatedAt, sc))
	return sc, nil
}

// UpdateScene replaces the stored record with sc, keyed by ID. Updating an
// absent id is a no-op.
func (s *Store) UpdateScene(sc model.SmartScene) (model.SmartScene, error) {
	sc.Name = strings.TrimSpace(sc.Name)
	if sc.Name == "" {
		return model.SmartScene{}, fmt.Errorf("%w: name is required", ErrValidation)
	}

	s.mu.Lock()
	i := s.sceneIndex(sc.ID)
	if i < 0 {
		s.mu.Unlock()
		return sc, nil
	}
	prev := s.scenes[i]
	sc.WGID = prev.WGID
	sc.CreatedAt = prev.CreatedAt
	sc.UpdatedAt = s.stamp()
	s.scenes[i] = sc
	s.mu.Unlock()

	s.emit(upsertEvent(model.EntitySmartScene, sc.ID, sc.UpdatedAt, sc))
	return sc, nil
}

// RemoveScene deletes a scene. Removing an absent id is a no-op.
func (s *Store) RemoveScene(id string) {
	s.mu.Lock()
	i := s.sceneIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.scenes = slices.Delete(s.scenes, i, i+1)
	ts := s.stamp()
	s.mu.Unlock()

	s.emit(deleteEvent(model.EntitySmartScene, id, ts))
}

// Scene returns the scene with the given id.
func (s *Store) Scene(id string) (model.SmartScene, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.sceneIndex(id); i >= 0 {
		return s.scenes[i], true
	}
	return model.SmartScene{}, false
}

// Scenes returns all scenes in creation order. The slice is a copy.
func (s *Store) Scenes() []model.SmartScene {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.scenes)
}

// SetSceneActive toggles a scene. Absent ids and unchanged flags are
// no-ops. Returns the updated scene and whether anything changed.
func (s *Store) SetSceneActive(id string, active bool) (model.SmartScene, bool) {
	s.mu.Lock()
	i := s.sceneIndex(id)
	if i < 0 || s.scenes[i].IsActive == active {
		s.mu.Unlock()
		return model.SmartScene{}, false
	}
	sc := &s.scenes[i]
	sc.IsActive = active
	sc.UpdatedAt = s.stamp()
	ev := upsertEvent(model.EntitySmartScene, sc.ID, sc.UpdatedAt, *sc)
	out := *sc
	s.mu.Unlock()

	s.emit(ev)
	return out, true
}

func (s *Store) sceneIndex(id string) int {
	return slices.IndexFunc(s.scenes, func(sc model.SmartScene) bool { return sc.ID == id })
}
