package report

import (
	"context"
	"fmt"
	"math"
	"strings"

	"rcg/internal/chart"
	"rcg/internal/gender"
	"rcg/internal/store"
	"rcg/internal/textutil"
)

// Store is the read side the reports need.
type Store interface {
	FeatureRows(ctx context.Context, date chart.Date) ([]store.FeatureRow, error)
	GenderCounts(ctx context.Context, date chart.Date) ([]store.GenderCount, error)
	Tally(ctx context.Context, date chart.Date) ([]store.TallyRow, error)
	LatestChartDate(ctx context.Context) (chart.Date, error)
}

// Service renders report views.
type Service struct {
	store Store
	clock chart.Clock
}

// NewService wires a report service.
func NewService(st Store, clock chart.Clock) *Service {
	return &Service{store: st, clock: clock}
}

// Song is one charted song with its features.
type Song struct {
	SongID        string   `json:"song_id"`
	Title         string   `json:"title"`
	PrimaryArtist string   `json:"primary_artist"`
	Features      []string `json:"features"`
}

// ChartView is the chart for a date.
type ChartView struct {
	Date     chart.Date `json:"date"`
	LongDate string     `json:"long_date"`
	Songs    []Song     `json:"songs"`
}

// CountRow is one gender's share of appearances.
type CountRow struct {
	Gender     gender.Label `json:"gender"`
	Label      string       `json:"label"`
	Count      int          `json:"count"`
	Percentage float64      `json:"percentage"`
}

// CountsView is the gender breakdown for a date.
type CountsView struct {
	Date  chart.Date `json:"date"`
	Total int        `json:"total"`
	Rows  []CountRow `json:"rows"`
}

// TallyView lists artist appearance counts, overall and per gender.
type TallyView struct {
	Date     chart.Date                  `json:"date"`
	Rows     []store.TallyRow            `json:"rows"`
	ByGender map[string][]store.TallyRow `json:"by_gender"`
}

// DailyView compares today's chart with yesterday's.
type DailyView struct {
	Today     chart.Date `json:"today"`
	Yesterday chart.Date `json:"yesterday"`
	Added     []Song     `json:"added"`
	Removed   []Song     `json:"removed"`
	Counts    CountsView `json:"counts"`
}

// ResolveDate validates input; blank input means the latest persisted chart.
func (s *Service) ResolveDate(ctx context.Context, input string) (chart.Date, error) {
	if strings.TrimSpace(input) == "" {
		return s.store.LatestChartDate(ctx)
	}
	return chart.ParseDate(input)
}

// Chart returns the songs charted on the date with feature suffixes
// stripped from titles.
func (s *Service) Chart(ctx context.Context, dateInput string) (ChartView, error) {
	date, err := s.ResolveDate(ctx, dateInput)
	if err != nil {
		return ChartView{}, err
	}
	songs, err := s.songs(ctx, date)
	if err != nil {
		return ChartView{}, err
	}
	if len(songs) == 0 {
		return ChartView{}, fmt.Errorf("%s: %w", date, store.ErrNoChartFound)
	}
	return ChartView{Date: date, LongDate: date.Long(), Songs: songs}, nil
}

// Counts returns appearance counts per gender. Every demographic label is
// listed even when its count is zero. A date without chart rows is
// ErrNoChartFound.
func (s *Service) Counts(ctx context.Context, dateInput string) (CountsView, error) {
	date, err := s.ResolveDate(ctx, dateInput)
	if err != nil {
		return CountsView{}, err
	}
	view, err := s.counts(ctx, date)
	if err != nil {
		return CountsView{}, err
	}
	if view.Total == 0 {
		return CountsView{}, fmt.Errorf("%s: %w", date, store.ErrNoChartFound)
	}
	return view, nil
}

// Tally returns per-artist appearance counts.
func (s *Service) Tally(ctx context.Context, dateInput string) (TallyView, error) {
	date, err := s.ResolveDate(ctx, dateInput)
	if err != nil {
		return TallyView{}, err
	}
	rows, err := s.store.Tally(ctx, date)
	if err != nil {
		return TallyView{}, err
	}
	if len(rows) == 0 {
		return TallyView{}, fmt.Errorf("%s: %w", date, store.ErrNoChartFound)
	}
	view := TallyView{Date: date, Rows: rows, ByGender: make(map[string][]store.TallyRow)}
	for _, row := range rows {
		view.ByGender[row.Gender] = append(view.ByGender[row.Gender], row)
	}
	return view, nil
}

// Daily compares today's chart with yesterday's in the service clock.
// A missing chart on either day reads as empty.
func (s *Service) Daily(ctx context.Context) (DailyView, error) {
	today := s.clock.Today()
	yesterday := today.AddDays(-1)
	current, err := s.songs(ctx, today)
	if err != nil {
		return DailyView{}, err
	}
	previous, err := s.songs(ctx, yesterday)
	if err != nil {
		return DailyView{}, err
	}
	counts, err := s.counts(ctx, today)
	if err != nil {
		return DailyView{}, err
	}
	return DailyView{
		Today:     today,
		Yesterday: yesterday,
		Added:     songDelta(current, previous),
		Removed:   songDelta(previous, current),
		Counts:    counts,
	}, nil
}

func (s *Service) songs(ctx context.Context, date chart.Date) ([]Song, error) {
	rows, err := s.store.FeatureRows(ctx, date)
	if err != nil {
		return nil, err
	}
	var songs []Song
	index := make(map[string]int)
	for _, row := range rows {
		idx, ok := index[row.SongID]
		if !ok {
			idx = len(songs)
			index[row.SongID] = idx
			songs = append(songs, Song{
				SongID:        row.SongID,
				Title:         textutil.StripFeatureSuffix(row.SongName),
				PrimaryArtist: row.PrimaryArtistName,
				Features:      []string{},
			})
		}
		if row.IsPrimary || row.ArtistName == row.PrimaryArtistName {
			continue
		}
		songs[idx].Features = append(songs[idx].Features, row.ArtistName)
	}
	return songs, nil
}

func (s *Service) counts(ctx context.Context, date chart.Date) (CountsView, error) {
	raw, err := s.store.GenderCounts(ctx, date)
	if err != nil {
		return CountsView{}, err
	}
	byLabel := make(map[gender.Label]int, len(raw))
	var extra []gender.Label
	total := 0
	for _, row := range raw {
		label := gender.Label(row.Gender)
		if label == "" {
			label = gender.Unknown
		}
		if _, seen := byLabel[label]; !seen && !isDemographic(label) {
			extra = append(extra, label)
		}
		byLabel[label] += row.Total
		total += row.Total
	}
	view := CountsView{Date: date, Total: total}
	for _, label := range append(gender.Demographic(), extra...) {
		count := byLabel[label]
		view.Rows = append(view.Rows, CountRow{
			Gender:     label,
			Label:      textutil.Title(label.Describe()),
			Count:      count,
			Percentage: percentage(count, total),
		})
	}
	return view, nil
}

func isDemographic(label gender.Label) bool {
	for _, l := range gender.Demographic() {
		if l == label {
			return true
		}
	}
	return false
}

func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)*10000/float64(total)) / 100
}

func songDelta(a, b []Song) []Song {
	present := make(map[string]bool, len(b))
	for _, song := range b {
		present[song.SongID] = true
	}
	out := []Song{}
	for _, song := range a {
		if !present[song.SongID] {
			out = append(out, song)
		}
	}
	return out
}
