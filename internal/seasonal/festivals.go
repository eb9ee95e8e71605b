// internal/seasonal/festivals.go
package seasonal

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/kiranalabs/restock/internal/domain"
	"github.com/kiranalabs/restock/internal/repository"
)

// effectWindowDays is how far a festival's demand lift reaches on each side.
const effectWindowDays = 2

// decayPerDay is the multiplier attenuation per day of distance from the
// festival date itself.
const decayPerDay = 0.2

// defaultFestival is one entry of the built-in India calendar. Dates for
// lunar festivals shift year to year; these are approximations meant to
// be overridden through the festival API when exact dates are known.
type defaultFestival struct {
	Name       string
	Month      time.Month
	Day        int
	Multiplier float64
	Region     string
}

var defaultCalendar = []defaultFestival{
	{"Diwali", time.October, 24, 2.5, "All India"},
	{"Dhanteras", time.October, 22, 1.8, "All India"},
	{"Holi", time.March, 14, 1.6, "North India"},
	{"Eid ul-Fitr", time.April, 10, 2.0, "All India"},
	{"Eid ul-Adha", time.June, 17, 1.8, "All India"},
	{"Ganesh Chaturthi", time.September, 7, 1.7, "Maharashtra"},
	{"Navratri Start", time.October, 3, 1.5, "All India"},
	{"Durga Puja", time.October, 12, 2.0, "West Bengal"},
	{"Pongal", time.January, 14, 1.6, "Tamil Nadu"},
	{"Makar Sankranti", time.January, 14, 1.5, "North India"},
	{"Onam", time.August, 29, 1.8, "Kerala"},
	{"Christmas", time.December, 25, 1.5, "All India"},
	{"New Year", time.January, 1, 1.4, "All India"},
	{"Raksha Bandhan", time.August, 19, 1.5, "North India"},
}

// Provider answers date-to-demand-multiplier lookups against the
// configured festival calendar.
type Provider struct {
	festivals repository.FestivalRepository
}

func NewProvider(festivals repository.FestivalRepository) *Provider {
	return &Provider{festivals: festivals}
}

// SeedDefaults inserts the built-in calendar for the given year, skipping
// entries that already exist. Returns the number of festivals added.
func (p *Provider) SeedDefaults(ctx context.Context, year int) (int, error) {
	added := 0
	for _, df := range defaultCalendar {
		date := time.Date(year, df.Month, df.Day, 0, 0, 0, 0, time.UTC)
		exists, err := p.festivals.Exists(ctx, df.Name, date)
		if err != nil {
			return added, fmt.Errorf("check festival %q: %w", df.Name, err)
		}
		if exists {
			continue
		}
		f := &domain.Festival{
			Name:             df.Name,
			Date:             date,
			Region:           df.Region,
			ImpactMultiplier: df.Multiplier,
		}
		if err := p.festivals.Create(ctx, f); err != nil {
			return added, fmt.Errorf("seed festival %q: %w", df.Name, err)
		}
		added++
	}
	return added, nil
}

// Add registers a custom festival date.
func (p *Provider) Add(ctx context.Context, f *domain.Festival) error {
	if f.Name == "" {
		return fmt.Errorf("festival name is required")
	}
	if f.Region == "" {
		f.Region = "All India"
	}
	if f.ImpactMultiplier <= 0 {
		f.ImpactMultiplier = 1.5
	}
	return p.festivals.Create(ctx, f)
}

// List returns every configured festival ordered by date.
func (p *Provider) List(ctx context.Context) ([]domain.Festival, error) {
	return p.festivals.List(ctx)
}

// Upcoming returns festivals within the next n days of the given date.
func (p *Provider) Upcoming(ctx context.Context, from time.Time, days int) ([]domain.Festival, error) {
	start := midnight(from)
	return p.festivals.GetRange(ctx, start, start.AddDate(0, 0, days))
}

// FestivalOn returns the festival falling on the exact date, or nil
// when the day is ordinary.
func (p *Provider) FestivalOn(ctx context.Context, date time.Time) (*domain.Festival, error) {
	f, err := p.festivals.GetByDate(ctx, midnight(date))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ImpactMultiplier returns the demand lift for a date. A festival lifts
// demand on its own day and, attenuated, on the two days before and the
// two days after it. The nearest festival wins; ties at equal distance
// resolve to the stronger lift. Dates with no festival in reach return 1.
func (p *Provider) ImpactMultiplier(ctx context.Context, target time.Time) (float64, error) {
	day := midnight(target)
	nearby, err := p.festivals.GetRange(ctx,
		day.AddDate(0, 0, -effectWindowDays),
		day.AddDate(0, 0, effectWindowDays))
	if err != nil {
		return 1.0, err
	}
	return multiplierFor(day, nearby), nil
}

// MultiplierRange resolves one multiplier per day of [start, end] with a
// single calendar query. Used when adjusting a whole forecast horizon.
func (p *Provider) MultiplierRange(ctx context.Context, start, end time.Time) (map[time.Time]float64, error) {
	start, end = midnight(start), midnight(end)
	nearby, err := p.festivals.GetRange(ctx,
		start.AddDate(0, 0, -effectWindowDays),
		end.AddDate(0, 0, effectWindowDays))
	if err != nil {
		return nil, err
	}
	out := make(map[time.Time]float64)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		out[day] = multiplierFor(day, nearby)
	}
	return out, nil
}

// multiplierFor picks the festival nearest to day among candidates and
// applies the distance decay. The result never drops below 1.0 so a weak
// festival two days out cannot suppress demand below baseline.
func multiplierFor(day time.Time, candidates []domain.Festival) float64 {
	best := 1.0
	bestDist := effectWindowDays + 1
	for _, f := range candidates {
		dist := daysBetween(day, midnight(f.Date))
		if dist > effectWindowDays {
			continue
		}
		m := f.ImpactMultiplier * (1.0 - float64(dist)*decayPerDay)
		if dist < bestDist || (dist == bestDist && m > best) {
			best = m
			bestDist = dist
		}
	}
	if best < 1.0 {
		return 1.0
	}
	return best
}

func daysBetween(a, b time.Time) int {
	return int(math.Abs(a.Sub(b).Hours()) / 24)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// memoryRepository is an in-process FestivalRepository used when the
// service runs without a database, and by tests.
type memoryRepository struct {
	festivals []domain.Festival
	nextID    int64
}

// NewMemoryRepository returns an empty in-memory festival store.
func NewMemoryRepository() repository.FestivalRepository {
	return &memoryRepository{nextID: 1}
}

func (m *memoryRepository) Create(_ context.Context, f *domain.Festival) error {
	f.ID = m.nextID
	m.nextID++
	f.Date = midnight(f.Date)
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	m.festivals = append(m.festivals, *f)
	return nil
}

func (m *memoryRepository) GetByDate(_ context.Context, date time.Time) (*domain.Festival, error) {
	day := midnight(date)
	for i := range m.festivals {
		if m.festivals[i].Date.Equal(day) {
			f := m.festivals[i]
			return &f, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryRepository) GetRange(_ context.Context, start, end time.Time) ([]domain.Festival, error) {
	var out []domain.Festival
	for _, f := range m.festivals {
		if !f.Date.Before(start) && !f.Date.After(end) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *memoryRepository) Exists(_ context.Context, name string, date time.Time) (bool, error) {
	day := midnight(date)
	for _, f := range m.festivals {
		if f.Name == name && f.Date.Equal(day) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryRepository) List(_ context.Context) ([]domain.Festival, error) {
	out := make([]domain.Festival, len(m.festivals))
	copy(out, m.festivals)
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
