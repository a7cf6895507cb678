package pricing

import (
	"fmt"

	"github.com/google/uuid"
)

// Entry is one selected service together with its active option, if any.
type Entry struct {
	ServiceID uuid.UUID
	OptionID  uuid.UUID // uuid.Nil when the service has no options
}

// Selection tracks which services are selected and which option is active per
// service. Each service is either unselected or selected exactly once; toggling
// a selected service removes it together with its option entry, so no option
// reference can outlive its service.
type Selection struct {
	order   []uuid.UUID
	options map[uuid.UUID]uuid.UUID
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{options: make(map[uuid.UUID]uuid.UUID)}
}

// ToggleService selects the service if unselected, assigning its first catalog
// option as the default, and deselects it otherwise.
func (sel *Selection) ToggleService(snap *Snapshot, serviceID uuid.UUID) error {
	svc, ok := snap.ServiceByID(serviceID)
	if !ok {
		return fmt.Errorf("toggle service %s: %w", serviceID, ErrUnknownCatalogReference)
	}
	if _, selected := sel.options[serviceID]; selected {
		sel.remove(serviceID)
		return nil
	}
	optionID := uuid.Nil
	if len(svc.Options) > 0 {
		optionID = svc.Options[0].ID
	}
	sel.order = append(sel.order, serviceID)
	sel.options[serviceID] = optionID
	return nil
}

// SelectOption replaces the active option of an already selected service.
func (sel *Selection) SelectOption(snap *Snapshot, serviceID, optionID uuid.UUID) error {
	if _, selected := sel.options[serviceID]; !selected {
		return fmt.Errorf("service %s not selected: %w", serviceID, ErrInvalidSelection)
	}
	opt, ok := snap.OptionByID(optionID)
	if !ok {
		return fmt.Errorf("option %s: %w", optionID, ErrUnknownCatalogReference)
	}
	if opt.ServiceID != serviceID {
		return fmt.Errorf("option %s does not belong to service %s: %w", optionID, serviceID, ErrInvalidSelection)
	}
	sel.options[serviceID] = optionID
	return nil
}

// Selected reports whether the service is currently part of the selection.
func (sel *Selection) Selected(serviceID uuid.UUID) bool {
	_, ok := sel.options[serviceID]
	return ok
}

// Entries returns the selection in insertion order.
func (sel *Selection) Entries() []Entry {
	entries := make([]Entry, 0, len(sel.order))
	for _, serviceID := range sel.order {
		entries = append(entries, Entry{ServiceID: serviceID, OptionID: sel.options[serviceID]})
	}
	return entries
}

// ServiceIDs returns the selected service ids in insertion order.
func (sel *Selection) ServiceIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(sel.order))
	copy(ids, sel.order)
	return ids
}

// Len returns the number of selected services.
func (sel *Selection) Len() int {
	return len(sel.order)
}

func (sel *Selection) remove(serviceID uuid.UUID) {
	delete(sel.options, serviceID)
	for i, id := range sel.order {
		if id == serviceID {
			sel.order = append(sel.order[:i], sel.order[i+1:]...)
			return
		}
	}
}
