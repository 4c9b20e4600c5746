// Package resolver decides which menu schedule slots are active or upcoming at
// an instant and derives the catalog entries they expose.
package resolver

import (
	"sort"

	"go.uber.org/zap"

	"github.com/noah-isme/resto-menu-api/internal/models"
	"github.com/noah-isme/resto-menu-api/internal/timewindow"
)

// SlotKind distinguishes recurring time slots from date slots.
type SlotKind string

const (
	SlotKindTime SlotKind = "time"
	SlotKindDate SlotKind = "date"
)

// Slot is a matched slot tagged with its parent schedule.
type Slot struct {
	ScheduleID     string                  `json:"schedule_id"`
	ScheduleName   string                  `json:"schedule_name"`
	Priority       int                     `json:"priority"`
	Kind           SlotKind                `json:"kind"`
	Index          int                     `json:"index"`
	Name           string                  `json:"name"`
	StartsIn       int                     `json:"starts_in_minutes,omitempty"`
	MenuItems      []string                `json:"menu_items"`
	Categories     []string                `json:"categories"`
	ModifierGroups []string                `json:"modifier_groups"`
	Settings       models.ScheduleSettings `json:"-"`
}

// VisibleSet is the union of catalog entries exposed by a set of slots.
type VisibleSet struct {
	Items          map[string]struct{}
	Categories     map[string]struct{}
	ModifierGroups map[string]struct{}
}

// HasItem reports whether id is exposed.
func (v VisibleSet) HasItem(id string) bool { _, ok := v.Items[id]; return ok }

// HasCategory reports whether slug is exposed.
func (v VisibleSet) HasCategory(slug string) bool { _, ok := v.Categories[slug]; return ok }

// HasModifierGroup reports whether id is exposed.
func (v VisibleSet) HasModifierGroup(id string) bool { _, ok := v.ModifierGroups[id]; return ok }

// Resolver evaluates schedules. It holds no per-call state.
type Resolver struct {
	policy    timewindow.DayPolicy
	logger    *zap.Logger
	onSkipped func(kind string)
}

// Option customises a Resolver.
type Option func(*Resolver)

// WithSkipHook registers a callback invoked for every skipped malformed slot.
func WithSkipHook(fn func(kind string)) Option {
	return func(r *Resolver) { r.onSkipped = fn }
}

// New builds a Resolver.
func New(policy timewindow.DayPolicy, logger *zap.Logger, opts ...Option) *Resolver {
	if policy == "" {
		policy = timewindow.DayPolicyStartDay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Resolver{policy: policy, logger: logger}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Policy returns the configured midnight day policy.
func (r *Resolver) Policy() timewindow.DayPolicy { return r.policy }

// Ordered returns schedules sorted by priority desc, then creation time asc,
// then ID asc. The input slice is not modified.
func Ordered(schedules []models.MenuSchedule) []models.MenuSchedule {
	out := make([]models.MenuSchedule, len(schedules))
	copy(out, schedules)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *Resolver) applicable(schedules []models.MenuSchedule, channelID string) []models.MenuSchedule {
	out := make([]models.MenuSchedule, 0, len(schedules))
	for _, s := range Ordered(schedules) {
		if !s.IsActive || !s.AppliesToChannel(channelID) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// ActiveSlots returns every slot of every enabled, channel-applicable schedule
// that is active at now, ordered by schedule precedence then slot order.
func (r *Resolver) ActiveSlots(schedules []models.MenuSchedule, now timewindow.Instant, channelID string) []Slot {
	var slots []Slot
	for _, s := range r.applicable(schedules, channelID) {
		switch {
		case s.ScheduleType.UsesTimeSlots():
			for i, ts := range s.TimeSlots {
				ok, err := timeWindow(ts).Match(now, r.policy)
				if err != nil {
					r.skip(s, SlotKindTime, i, err)
					continue
				}
				if ok {
					slots = append(slots, timeSlot(s, i, ts))
				}
			}
		case s.ScheduleType == models.ScheduleTypeDateBased:
			for i, ds := range s.DateSlots {
				ok, err := dateRange(ds).Contains(now)
				if err != nil {
					r.skip(s, SlotKindDate, i, err)
					continue
				}
				if ok {
					slots = append(slots, dateSlot(s, i, ds))
				}
			}
		default:
			r.logger.Warn("unknown schedule type", zap.String("schedule_id", s.ID), zap.String("type", string(s.ScheduleType)))
		}
	}
	return slots
}

// UpcomingSlots returns slots that are not active at now but start within
// (now, now+withinMinutes].
func (r *Resolver) UpcomingSlots(schedules []models.MenuSchedule, now timewindow.Instant, channelID string, withinMinutes int) []Slot {
	if withinMinutes <= 0 {
		return nil
	}
	var slots []Slot
	for _, s := range r.applicable(schedules, channelID) {
		switch {
		case s.ScheduleType.UsesTimeSlots():
			for i, ts := range s.TimeSlots {
				w := timeWindow(ts)
				if active, err := w.Match(now, r.policy); err != nil || active {
					if err != nil {
						r.skip(s, SlotKindTime, i, err)
					}
					continue
				}
				delta, ok, _ := w.MinutesUntilStart(now, withinMinutes)
				if ok {
					slot := timeSlot(s, i, ts)
					slot.StartsIn = delta
					slots = append(slots, slot)
				}
			}
		case s.ScheduleType == models.ScheduleTypeDateBased:
			for i, ds := range s.DateSlots {
				delta, ok, err := dateRange(ds).MinutesUntilStart(now, withinMinutes)
				if err != nil {
					r.skip(s, SlotKindDate, i, err)
					continue
				}
				if ok {
					slot := dateSlot(s, i, ds)
					slot.StartsIn = delta
					slots = append(slots, slot)
				}
			}
		}
	}
	return slots
}

// Governing returns the settings that control global menu behaviour: those of
// the highest-precedence schedule owning an active slot, otherwise those of the
// highest-precedence enabled applicable schedule. It returns nil when no
// schedule applies.
func (r *Resolver) Governing(schedules []models.MenuSchedule, active []Slot, channelID string) *models.ScheduleSettings {
	if len(active) > 0 {
		best := active[0]
		for _, slot := range active[1:] {
			if slot.Priority > best.Priority {
				best = slot
			}
		}
		settings := best.Settings
		return &settings
	}
	applicable := r.applicable(schedules, channelID)
	if len(applicable) == 0 {
		return nil
	}
	settings := applicable[0].Settings
	return &settings
}

func (r *Resolver) skip(s models.MenuSchedule, kind SlotKind, index int, err error) {
	r.logger.Warn("skipping malformed schedule slot",
		zap.String("schedule_id", s.ID),
		zap.String("kind", string(kind)),
		zap.Int("index", index),
		zap.Error(err),
	)
	if r.onSkipped != nil {
		r.onSkipped("schedule_slot")
	}
}

// ResolveVisibleSet unions the entries of every slot. Priority never removes
// an entry from the union.
func ResolveVisibleSet(slots []Slot) VisibleSet {
	set := VisibleSet{
		Items:          map[string]struct{}{},
		Categories:     map[string]struct{}{},
		ModifierGroups: map[string]struct{}{},
	}
	for _, slot := range slots {
		for _, id := range slot.MenuItems {
			set.Items[id] = struct{}{}
		}
		for _, slug := range slot.Categories {
			set.Categories[slug] = struct{}{}
		}
		for _, id := range slot.ModifierGroups {
			set.ModifierGroups[id] = struct{}{}
		}
	}
	return set
}

func timeWindow(ts models.TimeSlot) timewindow.Window {
	return timewindow.Window{Start: ts.StartTime, End: ts.EndTime, Days: ts.DaysOfWeek}
}

func dateRange(ds models.DateSlot) timewindow.DateRange {
	return timewindow.DateRange{Start: ds.StartDate, End: ds.EndDate}
}

func timeSlot(s models.MenuSchedule, index int, ts models.TimeSlot) Slot {
	return Slot{
		ScheduleID:     s.ID,
		ScheduleName:   s.Name,
		Priority:       s.Priority,
		Kind:           SlotKindTime,
		Index:          index,
		Name:           ts.Name,
		MenuItems:      ts.MenuItems,
		Categories:     ts.Categories,
		ModifierGroups: ts.ModifierGroups,
		Settings:       s.Settings,
	}
}

func dateSlot(s models.MenuSchedule, index int, ds models.DateSlot) Slot {
	return Slot{
		ScheduleID:     s.ID,
		ScheduleName:   s.Name,
		Priority:       s.Priority,
		Kind:           SlotKindDate,
		Index:          index,
		Name:           ds.Name,
		MenuItems:      ds.MenuItems,
		Categories:     ds.Categories,
		ModifierGroups: ds.ModifierGroups,
		Settings:       s.Settings,
	}
}
