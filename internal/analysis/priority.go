package analysis

import (
	"fmt"
	"sort"
)

const (
	// QuadrantMidpoint splits both matrix axes.
	QuadrantMidpoint = 5.5

	gapCap            = 40.0
	weightShare       = 0.4
	gapShare          = 0.6
	threatUrgencyBump = 2.0
)

var tierUrgency = map[ImpactTier]float64{
	TierCritical: 8,
	TierMedium:   5,
	TierNone:     3,
}

var phaseTimeline = map[Phase]string{
	PhaseImmediate: "0-1 months",
	PhaseShortTerm: "1-3 months",
	PhaseLongTerm:  "3-12 months",
}

// Importance scores a gap from 1 to 10 by category weight and gap size.
func Importance(weight, maxWeight, gap float64) float64 {
	w := 0.0
	if maxWeight > 0 {
		w = weight / maxWeight
	}
	g := clip(gap, 0, gapCap) / gapCap
	return round1(clip(1+9*(weightShare*w+gapShare*g), 1, 10))
}

// Urgency scores a gap from 1 to 10 by impact tier and threat overlap.
func Urgency(tier ImpactTier, threatOverlap bool) float64 {
	u := tierUrgency[tier]
	if threatOverlap {
		u += threatUrgencyBump
	}
	return clip(u, 1, 10)
}

// Place maps importance and urgency to a quadrant and roadmap phase.
func Place(importance, urgency float64) (Quadrant, Phase) {
	highImportance := importance >= QuadrantMidpoint
	highUrgency := urgency >= QuadrantMidpoint
	switch {
	case highImportance && highUrgency:
		return QuadrantDoFirst, PhaseImmediate
	case highImportance:
		return QuadrantSchedule, PhaseShortTerm
	case highUrgency:
		return QuadrantDelegate, PhaseLongTerm
	default:
		return QuadrantMonitor, PhaseLongTerm
	}
}

// BuildPriorityMatrix turns every positive category gap into a matrix item.
// Items are ordered by importance, urgency and category weight, all descending;
// remaining ties keep category order.
func BuildPriorityMatrix(gaps BenchmarkGap, swot SWOTResult, library *SWOTLibrary) []PriorityMatrixItem {
	threats := ThreatCategories(swot)

	maxWeight := 0.0
	for _, g := range gaps.Categories {
		if g.Weight > maxWeight {
			maxWeight = g.Weight
		}
	}

	items := make([]PriorityMatrixItem, 0, len(gaps.Categories))
	for _, g := range gaps.Categories {
		if g.Gap <= 0 {
			continue
		}
		importance := Importance(g.Weight, maxWeight, g.Gap)
		urgency := Urgency(g.ImpactTier, threats[g.Category])
		quadrant, phase := Place(importance, urgency)

		var actions []string
		if library != nil {
			actions = library.CategoryActions(g.Category)
		}

		items = append(items, PriorityMatrixItem{
			Item:       fmt.Sprintf("Close the %s gap of %.1f points", g.Label, g.Gap),
			Category:   g.Category,
			Actions:    actions,
			Gap:        g.Gap,
			Importance: importance,
			Urgency:    urgency,
			Quadrant:   quadrant,
			Phase:      phase,
			weight:     g.Weight,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Importance != b.Importance {
			return a.Importance > b.Importance
		}
		if a.Urgency != b.Urgency {
			return a.Urgency > b.Urgency
		}
		return a.weight > b.weight
	})

	return items
}

// BuildRoadmap groups matrix items by phase, preserving matrix order.
func BuildRoadmap(items []PriorityMatrixItem) Roadmap {
	roadmap := Roadmap{
		Immediate: []RoadmapItem{},
		ShortTerm: []RoadmapItem{},
		LongTerm:  []RoadmapItem{},
	}
	for _, it := range items {
		ri := RoadmapItem{
			Title:    it.Item,
			Category: it.Category,
			Actions:  it.Actions,
			Timeline: phaseTimeline[it.Phase],
		}
		switch it.Phase {
		case PhaseImmediate:
			roadmap.Immediate = append(roadmap.Immediate, ri)
		case PhaseShortTerm:
			roadmap.ShortTerm = append(roadmap.ShortTerm, ri)
		default:
			roadmap.LongTerm = append(roadmap.LongTerm, ri)
		}
	}
	return roadmap
}
