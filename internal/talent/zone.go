package talent

import (
	"math"
	"sort"
)

// Zone is a pitch-location classification, ordered from most hittable to
// least. Heart is nested inside the strike zone, chase is a buffer ring
// around it, waste is everything beyond.
type Zone int

const (
	ZoneHeart Zone = iota
	ZoneStrike
	ZoneChase
	ZoneWaste
)

// String returns the conventional label for the zone.
func (z Zone) String() string {
	switch z {
	case ZoneHeart:
		return "heart"
	case ZoneStrike:
		return "zone"
	case ZoneChase:
		return "chase"
	case ZoneWaste:
		return "waste"
	default:
		return "unknown"
	}
}

// Strike zone geometry in feet. The horizontal bounds are fixed; the vertical
// bounds travel with the batter's stance and default when unreported.
const (
	zoneHalfWidth  = 0.83
	heartHalfWidth = 0.33
	heartMargin    = 0.5 // vertical shrink on each edge for the heart region
	chaseBuffer    = 0.5 // expansion on all sides for the chase region

	DefaultSzTop = 3.5
	DefaultSzBot = 1.5
)

// ClassifyPitch assigns a pitch location to exactly one zone, checked in
// precedence order heart, zone, chase, waste. NaN strike-zone bounds are
// replaced by the league defaults.
func ClassifyPitch(plateX, plateZ, szTop, szBot float64) Zone {
	if math.IsNaN(szTop) {
		szTop = DefaultSzTop
	}
	if math.IsNaN(szBot) {
		szBot = DefaultSzBot
	}

	heartTop, heartBot := szTop-heartMargin, szBot+heartMargin
	if plateX >= -heartHalfWidth && plateX <= heartHalfWidth &&
		plateZ >= heartBot && plateZ <= heartTop {
		return ZoneHeart
	}

	if plateX >= -zoneHalfWidth && plateX <= zoneHalfWidth &&
		plateZ >= szBot && plateZ <= szTop {
		return ZoneStrike
	}

	if plateX >= -zoneHalfWidth-chaseBuffer && plateX <= zoneHalfWidth+chaseBuffer &&
		plateZ >= szBot-chaseBuffer && plateZ <= szTop+chaseBuffer {
		return ZoneChase
	}

	return ZoneWaste
}

// PitchProfile is one batter's pitch-location mix. HeartPct, the strike-only
// remainder of ZonePct, ChasePct and WastePct partition the unit interval;
// ZonePct includes heart pitches (every heart pitch is also a zone pitch).
type PitchProfile struct {
	Batter       int
	HeartPct     float64
	ZonePct      float64
	ChasePct     float64
	WastePct     float64
	TotalPitches int
}

// AggregatePitchProfiles classifies every located pitch and groups the
// results by batter. Pitches without plate coordinates are excluded entirely,
// before classification; they never count as waste. Batters with no located
// pitches are absent from the result and must be defaulted downstream.
func AggregatePitchProfiles(pitches []PitchEvent) map[int]PitchProfile {
	type counts struct {
		heart, strike, chase, waste int
	}
	byBatter := make(map[int]*counts)

	for _, p := range pitches {
		if !p.HasLocation {
			continue
		}
		c, ok := byBatter[p.Batter]
		if !ok {
			c = &counts{}
			byBatter[p.Batter] = c
		}
		switch ClassifyPitch(p.PlateX, p.PlateZ, p.SzTop, p.SzBot) {
		case ZoneHeart:
			c.heart++
		case ZoneStrike:
			c.strike++
		case ZoneChase:
			c.chase++
		case ZoneWaste:
			c.waste++
		}
	}

	profiles := make(map[int]PitchProfile, len(byBatter))
	for batter, c := range byBatter {
		total := c.heart + c.strike + c.chase + c.waste
		if total == 0 {
			continue
		}
		n := float64(total)
		profiles[batter] = PitchProfile{
			Batter:       batter,
			HeartPct:     float64(c.heart) / n,
			ZonePct:      float64(c.heart+c.strike) / n,
			ChasePct:     float64(c.chase) / n,
			WastePct:     float64(c.waste) / n,
			TotalPitches: total,
		}
	}
	return profiles
}

// SortedBatters returns the batter IDs of a profile map in ascending order,
// for deterministic iteration.
func SortedBatters(profiles map[int]PitchProfile) []int {
	ids := make([]int, 0, len(profiles))
	for id := range profiles {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
