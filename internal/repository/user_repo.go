package repository

import (
	"expoflow/internal/model"
	"expoflow/pkg/apperror"
)

// GetActor resolves a preloaded actor by id.
func (s *Store) GetActor(id string) (model.Actor, error) {
	var (
		actor model.Actor
		ok    bool
	)
	s.view(func() { actor, ok = s.actors.get(id) })
	if !ok {
		return model.Actor{}, apperror.NotFound("actor %s not found", id)
	}
	return actor, nil
}

// ListActors returns every preloaded actor.
func (s *Store) ListActors() []model.Actor {
	var out []model.Actor
	s.view(func() {
		out = make([]model.Actor, 0, s.actors.len())
		s.actors.each(func(a model.Actor) bool {
			out = append(out, a)
			return true
		})
	})
	return out
}
