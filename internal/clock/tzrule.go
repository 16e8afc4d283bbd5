package clock

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TZRule is a parsed POSIX-style timezone rule of the form
//
//	STD±H[:MM][DST[±H[:MM]][,Mm.w.d[/h],Mm.w.d[/h]]]
//
// e.g. "CET-1CEST,M3.5.0,M10.5.0/3" for Central European Time with daylight
// saving between the last Sunday of March and the last Sunday of October.
// Offsets follow the POSIX sign convention: "CET-1" means one hour east of
// UTC. Without transition rules the zone has no daylight saving.
type TZRule struct {
	StdName   string
	StdOffset time.Duration // east of UTC
	DSTName   string
	DSTOffset time.Duration

	hasDST bool
	start  transition // standard -> daylight
	end    transition // daylight -> standard
}

// transition is an Mm.w.d[/h] rule: week w (1-5, 5 = last) of month m,
// weekday d (0 = Sunday), at local hour h (default 2).
type transition struct {
	month   time.Month
	week    int
	weekday time.Weekday
	hour    int
}

// ParseTZRule parses a POSIX-style rule string.
func ParseTZRule(s string) (*TZRule, error) {
	if s == "" {
		return nil, fmt.Errorf("empty timezone rule")
	}
	parts := strings.Split(s, ",")

	rule := &TZRule{}
	rest := parts[0]

	var err error
	if rule.StdName, rest, err = takeName(rest); err != nil {
		return nil, fmt.Errorf("timezone rule %q: %w", s, err)
	}
	var stdWest time.Duration
	if stdWest, rest, err = takeOffset(rest); err != nil {
		return nil, fmt.Errorf("timezone rule %q: %w", s, err)
	}
	rule.StdOffset = -stdWest // POSIX offsets are west-positive

	if rest != "" {
		if rule.DSTName, rest, err = takeName(rest); err != nil {
			return nil, fmt.Errorf("timezone rule %q: %w", s, err)
		}
		rule.hasDST = true
		if rest != "" {
			dstWest, tail, err := takeOffset(rest)
			if err != nil || tail != "" {
				return nil, fmt.Errorf("timezone rule %q: trailing %q", s, rest)
			}
			rule.DSTOffset = -dstWest
		} else {
			rule.DSTOffset = rule.StdOffset + time.Hour
		}
	}

	switch {
	case !rule.hasDST && len(parts) == 1:
		return rule, nil
	case rule.hasDST && len(parts) == 3:
		if rule.start, err = parseTransition(parts[1]); err != nil {
			return nil, fmt.Errorf("timezone rule %q: %w", s, err)
		}
		if rule.end, err = parseTransition(parts[2]); err != nil {
			return nil, fmt.Errorf("timezone rule %q: %w", s, err)
		}
		return rule, nil
	default:
		return nil, fmt.Errorf("timezone rule %q: daylight name and two transition rules must appear together", s)
	}
}

// OffsetAt returns the zone abbreviation and UTC offset in effect at t.
func (r *TZRule) OffsetAt(t time.Time) (string, time.Duration) {
	if !r.hasDST {
		return r.StdName, r.StdOffset
	}
	year := t.In(time.FixedZone(r.StdName, seconds(r.StdOffset))).Year()

	// Transition instants are expressed in the local time in effect before
	// the switch: standard time for the spring transition, daylight time
	// for the autumn one.
	start := r.start.instant(year, r.StdOffset)
	end := r.end.instant(year, r.DSTOffset)

	var dst bool
	if start.Before(end) { // northern hemisphere
		dst = !t.Before(start) && t.Before(end)
	} else { // southern hemisphere
		dst = !t.Before(start) || t.Before(end)
	}
	if dst {
		return r.DSTName, r.DSTOffset
	}
	return r.StdName, r.StdOffset
}

// Format renders t as YYYY-MM-DDTHH:MM:SS±HH:MM in the zone the rule
// selects for that instant.
func (r *TZRule) Format(t time.Time) string {
	name, offset := r.OffsetAt(t)
	return t.In(time.FixedZone(name, seconds(offset))).Format("2006-01-02T15:04:05-07:00")
}

// instant returns the UTC instant of this transition in the given year,
// interpreting the rule's local hour with the supplied offset.
func (tr transition) instant(year int, offset time.Duration) time.Time {
	loc := time.FixedZone("", seconds(offset))
	// Walk to the requested weekday of the first week, then step weeks.
	t := time.Date(year, tr.month, 1, tr.hour, 0, 0, 0, loc)
	days := (int(tr.weekday) - int(t.Weekday()) + 7) % 7
	t = t.AddDate(0, 0, days+(tr.week-1)*7)
	if t.Month() != tr.month { // week 5 means "last", clamp back
		t = t.AddDate(0, 0, -7)
	}
	return t.UTC()
}

func parseTransition(s string) (transition, error) {
	tr := transition{hour: 2}
	if idx := strings.IndexByte(s, '/'); idx >= 0 {
		h, err := strconv.Atoi(s[idx+1:])
		if err != nil || h < 0 || h > 23 {
			return tr, fmt.Errorf("invalid transition hour in %q", s)
		}
		tr.hour = h
		s = s[:idx]
	}
	if !strings.HasPrefix(s, "M") {
		return tr, fmt.Errorf("unsupported transition rule %q (only Mm.w.d is supported)", s)
	}
	fields := strings.Split(s[1:], ".")
	if len(fields) != 3 {
		return tr, fmt.Errorf("invalid transition rule %q", s)
	}
	m, err1 := strconv.Atoi(fields[0])
	w, err2 := strconv.Atoi(fields[1])
	d, err3 := strconv.Atoi(fields[2])
	if err1 != nil || err2 != nil || err3 != nil ||
		m < 1 || m > 12 || w < 1 || w > 5 || d < 0 || d > 6 {
		return tr, fmt.Errorf("invalid transition rule %q", s)
	}
	tr.month = time.Month(m)
	tr.week = w
	tr.weekday = time.Weekday(d)
	return tr, nil
}

// takeName consumes the leading alphabetic zone abbreviation.
func takeName(s string) (string, string, error) {
	i := 0
	for i < len(s) && isAlpha(s[i]) {
		i++
	}
	if i < 3 {
		return "", "", fmt.Errorf("zone abbreviation too short in %q", s)
	}
	return s[:i], s[i:], nil
}

// takeOffset consumes a leading ±H[:MM] offset (west-positive, POSIX style).
func takeOffset(s string) (time.Duration, string, error) {
	i := 0
	sign := time.Duration(1)
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		if s[i] == '-' {
			sign = -1
		}
		i++
	}
	j := i
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == i {
		return 0, "", fmt.Errorf("missing offset in %q", s)
	}
	hours, err := strconv.Atoi(s[i:j])
	if err != nil || hours > 14 {
		return 0, "", fmt.Errorf("invalid offset hours in %q", s)
	}
	offset := time.Duration(hours) * time.Hour
	s = s[j:]
	if strings.HasPrefix(s, ":") {
		k := 1
		for k < len(s) && s[k] >= '0' && s[k] <= '9' {
			k++
		}
		mins, err := strconv.Atoi(s[1:k])
		if err != nil || mins > 59 {
			return 0, "", fmt.Errorf("invalid offset minutes in %q", s)
		}
		offset += time.Duration(mins) * time.Minute
		s = s[k:]
	}
	return sign * offset, s, nil
}

func isAlpha(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func seconds(d time.Duration) int { return int(d / time.Second) }
