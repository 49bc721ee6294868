package craft

// Availability is the tri-state outcome for an alternative or a slot.
type Availability uint8

const (
	// Unavailable: not enough matching items exist at all.
	Unavailable Availability = iota
	// InsufficientWithOther: enough exists, but not once shared with an
	// earlier slot that claimed some of it.
	InsufficientWithOther
	Available
)

// String returns human-readable availability name.
func (a Availability) String() string {
	switch a {
	case Unavailable:
		return "Unavailable"
	case InsufficientWithOther:
		return "InsufficientWithOther"
	case Available:
		return "Available"
	default:
		return "Unknown"
	}
}

// AlternativeResult describes one alternative of a slot after resolution.
// Need, Have and Free use the alternative's own measure: units, charges,
// or uses (items holding enough charges per use).
type AlternativeResult struct {
	Requirement Requirement
	Status      Availability
	Need        int32
	Have        int32 // ignoring other slots
	Free        int32 // after earlier slots' claims
}

// SlotResult describes one slot after resolution.
type SlotResult struct {
	ID           SlotID
	Status       Availability
	Chosen       int // index of the alternative that claimed items, -1 if none
	Alternatives []AlternativeResult
}

// ResolutionResult is the complete answer of Resolve: every slot and every
// alternative is present, whether satisfied or not.
type ResolutionResult struct {
	RecipeID   string
	Tools      []SlotResult
	Components []SlotResult
}

// Makeable reports whether every tool and component slot is Available.
// A recipe without slots is always makeable.
func (r *ResolutionResult) Makeable() bool {
	for i := range r.Tools {
		if r.Tools[i].Status != Available {
			return false
		}
	}
	for i := range r.Components {
		if r.Components[i].Status != Available {
			return false
		}
	}
	return true
}

// Missing returns the slots that are not Available, tools first.
func (r *ResolutionResult) Missing() []SlotID {
	var missing []SlotID
	for i := range r.Tools {
		if r.Tools[i].Status != Available {
			missing = append(missing, r.Tools[i].ID)
		}
	}
	for i := range r.Components {
		if r.Components[i].Status != Available {
			missing = append(missing, r.Components[i].ID)
		}
	}
	return missing
}

// Slot returns the result for id, or nil if id is out of range.
func (r *ResolutionResult) Slot(id SlotID) *SlotResult {
	slots := r.Components
	if id.Axis == AxisTool {
		slots = r.Tools
	}
	if id.Index < 0 || id.Index >= len(slots) {
		return nil
	}
	return &slots[id.Index]
}

func slotStatus(alts []AlternativeResult) Availability {
	status := Unavailable
	for _, a := range alts {
		if a.Status > status {
			status = a.Status
		}
	}
	return status
}
