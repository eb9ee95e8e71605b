package domain

import "strings"

// Urgency classifies how badly a product needs reordering.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

var urgencyRank = map[Urgency]int{
	UrgencyCritical: 0,
	UrgencyHigh:     1,
	UrgencyMedium:   2,
	UrgencyLow:      3,
}

// Rank returns the sort position for an urgency, critical first.
// Unknown values sort last.
func (u Urgency) Rank() int {
	if r, ok := urgencyRank[u]; ok {
		return r
	}

	return len(urgencyRank)
}

// ParseUrgency returns the urgency for a given label (case-insensitive).
func ParseUrgency(label string) (Urgency, bool) {
	u := Urgency(strings.ToLower(strings.TrimSpace(label)))
	_, ok := urgencyRank[u]

	return u, ok
}
