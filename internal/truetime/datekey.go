package truetime

import "time"

const (
	dateKeyLayout   = "2006-01-02"
	labelLayout     = "Jan 2"
	labelYearLayout = "Jan 2, 2006"
)

// DateKey identifies a calendar day in the user's zone, formatted YYYY-MM-DD.
// Daily logs, streaks and "today" filters are partitioned by it.
type DateKey string

// KeyOf formats t's calendar date in t's own location.
func KeyOf(t time.Time) DateKey {
	return DateKey(t.Format(dateKeyLayout))
}

// ParseDateKey parses a YYYY-MM-DD key into midnight UTC of that date.
func ParseDateKey(s string) (time.Time, error) {
	return time.Parse(dateKeyLayout, s)
}

func (k DateKey) String() string { return string(k) }

func (k DateKey) Valid() bool {
	_, err := ParseDateKey(string(k))
	return err == nil
}

func (k DateKey) Time() (time.Time, bool) {
	t, err := ParseDateKey(string(k))
	return t, err == nil
}

// AddDays shifts the key by n calendar days. Invalid keys are returned unchanged.
func (k DateKey) AddDays(n int) DateKey {
	t, ok := k.Time()
	if !ok {
		return k
	}
	return KeyOf(t.AddDate(0, 0, n))
}

func (k DateKey) Year() int {
	t, _ := k.Time()
	return t.Year()
}

func (k DateKey) Month() time.Month {
	t, _ := k.Time()
	return t.Month()
}

func (k DateKey) Day() int {
	t, _ := k.Time()
	return t.Day()
}

func (k DateKey) Weekday() time.Weekday {
	t, _ := k.Time()
	return t.Weekday()
}

// FormatLabel renders key as "Nov 30", or "Nov 30, 2024" when its year
// differs from now's. Unparsable input is returned as is.
func FormatLabel(key string, now time.Time) string {
	d, err := ParseDateKey(key)
	if err != nil {
		return key
	}
	if d.Year() == now.Year() {
		return d.Format(labelLayout)
	}
	return d.Format(labelYearLayout)
}

// ShortLabel renders key as "Nov 30" regardless of year.
func ShortLabel(key string) string {
	d, err := ParseDateKey(key)
	if err != nil {
		return key
	}
	return d.Format(labelLayout)
}
