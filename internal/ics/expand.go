package ics

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dentalking/geulpi-calendar/internal/domain"
	"github.com/teambition/rrule-go"
)

// occurrenceCap bounds expansion of unbounded rules.
const occurrenceCap = 1000

// Expand turns parsed events into concrete domain.CalendarEvent
// occurrences inside [from, to). Non-recurring events pass through when
// they intersect the window; RRULE events are expanded with EXDATEs
// applied. Events with an unparseable RRULE are logged and dropped.
func Expand(events []Event, from, to time.Time, logger *slog.Logger) ([]domain.CalendarEvent, error) {
	if to.Before(from) {
		return nil, errors.New("expand: window end before start")
	}

	out := make([]domain.CalendarEvent, 0, len(events))
	for _, ev := range events {
		if ev.RawRRule == "" {
			if ev.Start.Before(to) && from.Before(ev.End) {
				out = append(out, toDomain(ev, ev.UID, ev.Start, ev.End))
			}
			continue
		}

		r, err := rrule.StrToRRule(ev.RawRRule)
		if err != nil {
			logger.Warn("dropping event with invalid RRULE", "uid", ev.UID, "rrule", ev.RawRRule, "error", err)
			continue
		}
		r.DTStart(ev.Start)

		var set rrule.Set
		set.RRule(r)
		for _, ex := range ev.ExDates {
			set.ExDate(ex.In(ev.Start.Location()))
		}

		starts := set.Between(from.In(ev.Start.Location()), to.In(ev.Start.Location()), true)
		if len(starts) > occurrenceCap {
			starts = starts[:occurrenceCap]
			logger.Warn("recurrence expansion truncated", "uid", ev.UID, "cap", occurrenceCap)
		}

		dur := ev.End.Sub(ev.Start)
		for i, start := range starts {
			id := fmt.Sprintf("%s:%d", ev.UID, i)
			if ev.AllDay {
				day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
				out = append(out, toDomain(ev, id, day, day.Add(24*time.Hour)))
				continue
			}
			out = append(out, toDomain(ev, id, start, start.Add(dur)))
		}
	}
	return out, nil
}

func toDomain(ev Event, id string, start, end time.Time) domain.CalendarEvent {
	return domain.CalendarEvent{
		ID:          id,
		Summary:     ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
		Start:       start,
		End:         end,
		AllDay:      ev.AllDay,
	}
}
