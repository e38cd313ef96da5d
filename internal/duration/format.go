package duration

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Units are the labels used by Humanize.
type Units struct {
	Hours   string
	Minutes string
	Seconds string
}

// EnglishUnits is the default unit set.
var EnglishUnits = Units{Hours: "h", Minutes: "min", Seconds: "s"}

// Clock formats seconds as "m:ss". Minutes are not wrapped into hours.
func Clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// Humanize formats seconds as "1 h 2 min 3 s", dropping trailing zero parts.
func Humanize(seconds float64, u Units) string {
	s := int(seconds)
	if s < 0 {
		s = 0
	}
	switch {
	case s < 60:
		return fmt.Sprintf("%d %s", s, u.Seconds)
	case s < 3600:
		m, rem := s/60, s%60
		if rem == 0 {
			return fmt.Sprintf("%d %s", m, u.Minutes)
		}
		return fmt.Sprintf("%d %s %d %s", m, u.Minutes, rem, u.Seconds)
	default:
		h, m, rem := s/3600, (s%3600)/60, s%60
		switch {
		case m == 0 && rem == 0:
			return fmt.Sprintf("%d %s", h, u.Hours)
		case rem == 0:
			return fmt.Sprintf("%d %s %d %s", h, u.Hours, m, u.Minutes)
		default:
			return fmt.Sprintf("%d %s %d %s %d %s", h, u.Hours, m, u.Minutes, rem, u.Seconds)
		}
	}
}

// ParseClock parses "MM:SS" or "H:MM:SS" into seconds.
func ParseClock(text string) (int, error) {
	parts := strings.Split(strings.TrimSpace(text), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, eris.Errorf("duration: %q is not MM:SS or H:MM:SS", text)
	}
	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, eris.Errorf("duration: %q is not MM:SS or H:MM:SS", text)
		}
		total = total*60 + n
	}
	return total, nil
}

var isoPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseISO8601 parses durations such as "PT3M7S" or "P1DT2H" into seconds.
func ParseISO8601(text string) (int, error) {
	m := isoPattern.FindStringSubmatch(text)
	if m == nil || text == "P" || text == "PT" {
		return 0, eris.Errorf("duration: invalid ISO 8601 duration %q", text)
	}
	mult := []int{86400, 3600, 60, 1}
	total := 0
	for i, group := range m[1:] {
		if group == "" {
			continue
		}
		n, err := strconv.Atoi(group)
		if err != nil {
			return 0, eris.Wrapf(err, "duration: parse %q", text)
		}
		total += n * mult[i]
	}
	return total, nil
}
