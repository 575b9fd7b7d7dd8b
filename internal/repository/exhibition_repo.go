package repository

import (
	"fmt"
	"strings"
	"time"

	"expoflow/internal/model"
	"expoflow/internal/permission"
	"expoflow/pkg/apperror"
)

// ExhibitionPatch carries optional fields for UpdateExhibition. The
// exhibition code is not patchable: every link joins on it.
type ExhibitionPatch struct {
	Name        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Status      *string
}

func validateExhibition(e model.Exhibition) error {
	if strings.TrimSpace(e.Name) == "" {
		return apperror.Validation("exhibition name is required")
	}
	if !model.ValidExhibitionStatus(e.Status) {
		return apperror.Validation("unknown exhibition status %q", e.Status)
	}
	if e.StartDate != nil && e.EndDate != nil && e.EndDate.Before(*e.StartDate) {
		return apperror.Validation("exhibition end date is before its start date")
	}
	return nil
}

// ListExhibitions returns a snapshot of all exhibitions.
func (s *Store) ListExhibitions() []model.Exhibition {
	var out []model.Exhibition
	s.view(func() {
		out = make([]model.Exhibition, 0, s.exhibitions.len())
		s.exhibitions.each(func(e model.Exhibition) bool {
			out = append(out, cloneExhibition(e))
			return true
		})
	})
	return out
}

// GetExhibition looks an exhibition up by internal id, then by exhibition code.
func (s *Store) GetExhibition(idOrCode string) (model.Exhibition, error) {
	var (
		e  model.Exhibition
		ok bool
	)
	s.view(func() {
		if e, ok = s.exhibitions.get(idOrCode); !ok {
			e, ok = s.exhibitionByCodeLocked(idOrCode)
		}
	})
	if !ok {
		return model.Exhibition{}, apperror.NotFound("exhibition %s not found", idOrCode)
	}
	return cloneExhibition(e), nil
}

// GetExhibitionByCode looks an exhibition up by its external code only.
func (s *Store) GetExhibitionByCode(code string) (model.Exhibition, error) {
	var (
		e  model.Exhibition
		ok bool
	)
	s.view(func() { e, ok = s.exhibitionByCodeLocked(code) })
	if !ok {
		return model.Exhibition{}, apperror.NotFound("exhibition %s not found", code)
	}
	return cloneExhibition(e), nil
}

func (s *Store) exhibitionByCodeLocked(code string) (model.Exhibition, bool) {
	var (
		found model.Exhibition
		ok    bool
	)
	s.exhibitions.each(func(e model.Exhibition) bool {
		if e.ExhibitionCode == code {
			found, ok = e, true
			return false
		}
		return true
	})
	return found, ok
}

// exhibitionKeyTakenLocked reports whether key is already an exhibition id
// or code.
func (s *Store) exhibitionKeyTakenLocked(key string) bool {
	if s.exhibitions.has(key) {
		return true
	}
	_, taken := s.exhibitionByCodeLocked(key)
	return taken
}

func (s *Store) nextExhibitionCodeLocked() string {
	for {
		s.exhibitionSeq++
		code := fmt.Sprintf("EX-%04d", s.exhibitionSeq)
		if !s.exhibitionKeyTakenLocked(code) {
			return code
		}
	}
}

// CreateExhibition inserts e and links the initial products in one step.
// An empty code is assigned from the EX-0001 sequence; an empty status
// defaults to PLANNING. If any initial product fails validation nothing is
// inserted.
func (s *Store) CreateExhibition(g permission.Grant, e model.Exhibition, initial []ExhibitionProductInput) (model.Exhibition, []model.ExhibitionProduct, error) {
	if err := g.Require(permission.ExhibitionCreate); err != nil {
		return model.Exhibition{}, nil, err
	}
	e.Name = strings.TrimSpace(e.Name)
	e.ExhibitionCode = strings.TrimSpace(e.ExhibitionCode)
	if e.Status == "" {
		e.Status = model.ExhibitionStatusPlanning
	}
	if err := validateExhibition(e); err != nil {
		return model.Exhibition{}, nil, err
	}

	var links []model.ExhibitionProduct
	err := s.update(func() error {
		if e.ExhibitionCode == "" {
			e.ExhibitionCode = s.nextExhibitionCodeLocked()
		} else if s.exhibitionKeyTakenLocked(e.ExhibitionCode) {
			return apperror.Conflict("exhibition code %s already exists", e.ExhibitionCode)
		}
		if err := s.checkExhibitionProductsLocked(e.ExhibitionCode, initial); err != nil {
			return err
		}

		// Ids and codes share one lookup namespace, so neither may shadow the other.
		id, err := s.ids.Next("exh_", func(id string) bool {
			return id == e.ExhibitionCode || s.exhibitionKeyTakenLocked(id)
		})
		if err != nil {
			return err
		}
		now := s.timestamp()
		e.ID = id
		e.StartDate = cloneTime(e.StartDate)
		e.EndDate = cloneTime(e.EndDate)
		e.CreatedAt = now
		e.UpdatedAt = now
		s.exhibitions.put(id, e)

		links, err = s.insertExhibitionProductsLocked(e.ExhibitionCode, initial)
		if err != nil {
			s.exhibitions.remove(id)
		}
		return err
	})
	if err != nil {
		return model.Exhibition{}, nil, err
	}
	return cloneExhibition(e), links, nil
}

// UpdateExhibition merges patch over the stored exhibition.
func (s *Store) UpdateExhibition(g permission.Grant, id string, patch ExhibitionPatch) (model.Exhibition, error) {
	if err := g.Require(permission.ExhibitionUpdate); err != nil {
		return model.Exhibition{}, err
	}

	var updated model.Exhibition
	err := s.update(func() error {
		e, ok := s.exhibitions.get(id)
		if !ok {
			return apperror.NotFound("exhibition %s not found", id)
		}
		if patch.Name != nil {
			e.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Description != nil {
			e.Description = *patch.Description
		}
		if patch.StartDate != nil {
			e.StartDate = cloneTime(patch.StartDate)
		}
		if patch.EndDate != nil {
			e.EndDate = cloneTime(patch.EndDate)
		}
		if patch.Status != nil {
			e.Status = *patch.Status
		}
		if err := validateExhibition(e); err != nil {
			return err
		}
		e.UpdatedAt = s.timestamp()
		s.exhibitions.put(id, e)
		updated = cloneExhibition(e)
		return nil
	})
	if err != nil {
		return model.Exhibition{}, err
	}
	return updated, nil
}
