package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/skovatch/agora/internal/model"
)

// PlaceholderTime is used when no time of day can be extracted. It is an
// approximation for layout purposes only, never authoritative.
const PlaceholderTime = "9:00 AM"

// DateValidator resolves heterogeneous date/time text against a fixed
// reference clock. Candidates whose text cannot produce a concrete future
// calendar date are rejected, never silently defaulted.
type DateValidator struct {
	today time.Time
}

// NewDateValidator creates a validator anchored at the given reference time
func NewDateValidator(ref time.Time) *DateValidator {
	y, m, d := ref.Date()
	return &DateValidator{today: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

var monthNames = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June, "july": time.July,
	"august": time.August, "september": time.September, "october": time.October,
	"november": time.November, "december": time.December,
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "sept": time.September, "oct": time.October,
	"nov": time.November, "dec": time.December,
}

var (
	isoDate     = regexp.MustCompile(`\b(\d{4})[-/](\d{1,2})[-/](\d{1,2})\b`)
	usDate      = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{4})\b`)
	monthDay    = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept?|oct|nov|dec)\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?\b`)
	monthOnly   = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\b(?:\s+(\d{4}))?`)
	relativeCue = []struct {
		pattern string
		days    int
	}{
		{"today", 0}, {"tonight", 0}, {"tomorrow", 1},
		{"this week", 3}, {"next week", 7},
		{"this month", 15}, {"next month", 30},
	}
)

// Resolve parses the candidate's date and time text, writing Date, TimeOfDay
// and TimeApprox on success. It returns an error naming the reason when the
// candidate must be rejected.
func (v *DateValidator) Resolve(c *model.Candidate) error {
	date, ok := v.resolveDate(c.DateText)
	if ok && date.Before(v.today) {
		// Feeds put the entry's publication date here, and announcements
		// run ahead of the event. A future date in the entry text wins
		// over a past dedicated date.
		if alt, altOK := v.resolveDate(c.Title + " " + c.Description); altOK && !alt.Before(v.today) {
			date = alt
		}
	}
	if !ok {
		// The date often lives in the title or description rather than a
		// dedicated field.
		date, ok = v.resolveDate(c.Title + " " + c.Description)
	}
	if !ok {
		// Relative cues count only in the dedicated date field. Copy like
		// "register today" must not fabricate a date.
		date, ok = v.resolveRelative(c.DateText)
	}
	if !ok {
		return fmt.Errorf("no resolvable date")
	}
	if date.Before(v.today) {
		return fmt.Errorf("date %s is in the past", date.Format("2006-01-02"))
	}
	c.Date = date

	tod, ok := extractTime(c.TimeText)
	if !ok {
		tod, ok = extractTime(c.Title + " " + c.Description)
	}
	if ok {
		c.TimeOfDay = tod
		c.TimeApprox = false
	} else {
		c.TimeOfDay = PlaceholderTime
		c.TimeApprox = true
	}

	return nil
}

// resolveDate applies the layered strategy: explicit ISO, then human
// formats, then bare month/day rolled to the next future occurrence.
func (v *DateValidator) resolveDate(text string) (time.Time, bool) {
	if strings.TrimSpace(text) == "" {
		return time.Time{}, false
	}
	lower := strings.ToLower(text)

	if m := isoDate.FindStringSubmatch(text); m != nil {
		if d, ok := makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3])); ok {
			return d, true
		}
	}

	if m := usDate.FindStringSubmatch(text); m != nil {
		if d, ok := makeDate(atoi(m[3]), atoi(m[1]), atoi(m[2])); ok {
			return d, true
		}
	}

	if m := monthDay.FindStringSubmatch(lower); m != nil {
		month := monthNames[strings.TrimSuffix(m[1], ".")]
		day := atoi(m[2])
		if m[3] != "" {
			if d, ok := makeDate(atoi(m[3]), int(month), day); ok {
				return d, true
			}
		}
		// No year: roll a bare month/day forward to its next future
		// occurrence. This is the one sanctioned past-to-future coercion.
		if d, ok := makeDate(v.today.Year(), int(month), day); ok {
			if d.Before(v.today) {
				d, ok = makeDate(v.today.Year()+1, int(month), day)
				if !ok {
					return time.Time{}, false
				}
			}
			return d, true
		}
	}

	if m := monthOnly.FindStringSubmatch(lower); m != nil {
		month := monthNames[m[1]]
		if m[2] != "" {
			if d, ok := makeDate(atoi(m[2]), int(month), 1); ok {
				return d, true
			}
		}
		// Month with no year anchors to the nearest future occurrence of
		// that month. The ongoing month anchors to today, not its 1st,
		// which would already be past.
		if month == v.today.Month() {
			return v.today, true
		}
		d, _ := makeDate(v.today.Year(), int(month), 1)
		if d.Before(time.Date(v.today.Year(), v.today.Month(), 1, 0, 0, 0, 0, time.UTC)) {
			d, _ = makeDate(v.today.Year()+1, int(month), 1)
		}
		return d, true
	}

	return time.Time{}, false
}

// resolveRelative maps keyword cues like "tomorrow" or "next week" onto an
// approximate offset from the reference day.
func (v *DateValidator) resolveRelative(text string) (time.Time, bool) {
	lower := strings.ToLower(text)
	for _, cue := range relativeCue {
		if strings.Contains(lower, cue.pattern) {
			return v.today.AddDate(0, 0, cue.days), true
		}
	}
	return time.Time{}, false
}

var (
	time12h  = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*([ap])\.?m?\.?\b`)
	time24h  = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	bareHour = regexp.MustCompile(`(?i)\bat\s+(\d{1,2})\b`)
)

// extractTime parses a best-effort time of day into canonical "H:MM AM/PM"
// form. Range text like "2 pm - 4 pm" takes the start.
func extractTime(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}

	s := strings.NewReplacer("–", "-", "—", "-").Replace(text)
	if idx := strings.Index(s, "-"); idx > 0 {
		s = s[:idx]
	}
	lower := strings.ToLower(s)

	if strings.Contains(lower, "noon") {
		return "12:00 PM", true
	}
	if strings.Contains(lower, "midnight") {
		return "12:00 AM", true
	}

	if m := time12h.FindStringSubmatch(s); m != nil {
		hour := atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute = atoi(m[2])
		}
		if hour >= 1 && hour <= 12 && minute < 60 {
			ampm := "AM"
			if strings.EqualFold(m[3], "p") {
				ampm = "PM"
			}
			return fmt.Sprintf("%d:%02d %s", hour, minute, ampm), true
		}
	}

	if m := time24h.FindStringSubmatch(s); m != nil {
		hour, minute := atoi(m[1]), atoi(m[2])
		if hour <= 23 && minute < 60 {
			return clockAmPm(hour, minute), true
		}
	}

	// Bare hour with no meridiem: 1-6 reads as afternoon, 7-11 as morning.
	// Events rarely start at 3 AM or 7 PM sharp without saying so.
	if m := bareHour.FindStringSubmatch(s); m != nil {
		hour := atoi(m[1])
		switch {
		case hour >= 1 && hour <= 6:
			return fmt.Sprintf("%d:00 PM", hour), true
		case hour >= 7 && hour <= 11:
			return fmt.Sprintf("%d:00 AM", hour), true
		case hour == 12:
			return "12:00 PM", true
		}
	}

	return "", false
}

func clockAmPm(hour24, minute int) string {
	ampm := "AM"
	hour := hour24
	switch {
	case hour24 == 0:
		hour = 12
	case hour24 == 12:
		ampm = "PM"
	case hour24 > 12:
		hour = hour24 - 12
		ampm = "PM"
	}
	// Ambiguous small 24h values follow the bare-hour heuristic.
	if hour24 >= 1 && hour24 <= 6 {
		ampm = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", hour, minute, ampm)
}

func makeDate(year, month, day int) (time.Time, bool) {
	if year < 2000 || year > 2100 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// Reject normalized overflow like February 31.
	if d.Day() != day || int(d.Month()) != month {
		return time.Time{}, false
	}
	return d, true
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
