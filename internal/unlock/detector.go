package unlock

import "github.com/dmitrijs2005/echoverse/internal/models"

// Detector finds entries that went from locked to unlocked between two
// consecutive passes. It is not safe for concurrent use; the session
// serialises passes.
type Detector struct {
	previous map[string]bool
}

func NewDetector() *Detector {
	return &Detector{previous: make(map[string]bool)}
}

// Observe records the given pass and returns the entries that were locked on
// the previous pass and are unlocked now. An id never seen before is recorded
// silently. Unlocked to locked flips are recorded but never returned.
func (d *Detector) Observe(statuses []Status) []models.Entry {
	var crossed []models.Entry
	for _, s := range statuses {
		wasUnlocked, seen := d.previous[s.Entry.ID]
		if seen && !wasUnlocked && s.Unlocked {
			crossed = append(crossed, s.Entry)
		}
		d.previous[s.Entry.ID] = s.Unlocked
	}
	return crossed
}
