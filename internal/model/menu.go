package model

import "time"

const (
	SlotBreakfast = "breakfast"
	SlotLunch     = "lunch"
	SlotDinner    = "dinner"
)

// MenuEntry is one planned meal: a dish in a slot on a weekday of a given
// rotation week. CookID optionally points at the family member cooking.
type MenuEntry struct {
	ID        int64     `json:"id"`
	WeekStart time.Time `json:"week_start"`
	Weekday   int       `json:"weekday"`
	Slot      string    `json:"slot"`
	Dish      string    `json:"dish"`
	CookID    *int64    `json:"cook_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidSlot reports whether slot is one of the three meal slots.
func ValidSlot(slot string) bool {
	return slot == SlotBreakfast || slot == SlotLunch || slot == SlotDinner
}
