// Package locale holds the user-facing labels in English and Russian and
// formats numbers the way each language writes them.
package locale

import (
	_ "embed"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/watchstats/internal/duration"
)

//go:embed locales.yaml
var catalogYAML []byte

// Columns are the export column headers.
type Columns struct {
	VideoID           string `yaml:"video_id"`
	Title             string `yaml:"title"`
	Channel           string `yaml:"channel"`
	URL               string `yaml:"url"`
	Date              string `yaml:"date"`
	Time              string `yaml:"time"`
	YearMonth         string `yaml:"year_month"`
	DayOfWeek         string `yaml:"day_of_week"`
	Hour              string `yaml:"hour"`
	Source            string `yaml:"source"`
	DateTimeUTC       string `yaml:"datetime_utc"`
	DurationSeconds   string `yaml:"duration_seconds"`
	DurationFormatted string `yaml:"duration_formatted"`
	DurationMinutes   string `yaml:"duration_minutes"`
}

// Catalog is the label set of one language.
type Catalog struct {
	Tag      string            `yaml:"tag"`
	Unknown  string            `yaml:"unknown"`
	Units    units             `yaml:"units"`
	Weekdays []string          `yaml:"weekdays"`
	Months   []string          `yaml:"months"`
	Columns  Columns           `yaml:"columns"`
	Labels   map[string]string `yaml:"labels"`

	printer *message.Printer
}

type units struct {
	Hours   string `yaml:"hours"`
	Minutes string `yaml:"minutes"`
	Seconds string `yaml:"seconds"`
}

// Load returns the catalog for lang ("en" or "ru").
func Load(lang string) (*Catalog, error) {
	var all map[string]*Catalog
	if err := yaml.Unmarshal(catalogYAML, &all); err != nil {
		return nil, eris.Wrap(err, "locale: parse catalog")
	}
	c, ok := all[lang]
	if !ok {
		return nil, eris.Errorf("locale: unsupported language %q", lang)
	}
	if len(c.Weekdays) != 7 || len(c.Months) != 12 {
		return nil, eris.Errorf("locale: incomplete calendar names for %q", lang)
	}
	tag, err := language.Parse(c.Tag)
	if err != nil {
		return nil, eris.Wrapf(err, "locale: parse tag %q", c.Tag)
	}
	c.printer = message.NewPrinter(tag)
	return c, nil
}

// Label returns the label for key, or key itself when it has none.
func (c *Catalog) Label(key string) string {
	if v, ok := c.Labels[key]; ok {
		return v
	}
	return key
}

// Weekday returns the localized name of d.
func (c *Catalog) Weekday(d time.Weekday) string {
	return c.Weekdays[(int(d)+6)%7]
}

// WeekdayAt returns the localized name of the Monday-first index i.
func (c *Catalog) WeekdayAt(i int) string {
	return c.Weekdays[i%7]
}

// Month returns the localized name of month m (1-12).
func (c *Catalog) Month(m time.Month) string {
	return c.Months[(int(m)-1)%12]
}

// Int formats n with the language's digit grouping.
func (c *Catalog) Int(n int) string {
	return c.printer.Sprintf("%d", n)
}

// Float formats f with one decimal and the language's separators.
func (c *Catalog) Float(f float64) string {
	return c.printer.Sprintf("%.1f", f)
}

// Sprintf formats with the language's number conventions.
func (c *Catalog) Sprintf(format string, args ...any) string {
	return c.printer.Sprintf(format, args...)
}

// Duration formats seconds as hours, minutes and seconds in words.
func (c *Catalog) Duration(seconds float64) string {
	return duration.Humanize(seconds, duration.Units{
		Hours:   c.Units.Hours,
		Minutes: c.Units.Minutes,
		Seconds: c.Units.Seconds,
	})
}

// Languages lists the languages in the catalog.
func Languages() []string {
	return []string{"en", "ru"}
}
