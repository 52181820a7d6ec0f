package analytics

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/linkdeck/linkdeck/internal/link"
)

const (
	topLimit = 10

	// hourly buckets are only reported for windows up to this long
	hourlyWindowMax = 48 * time.Hour
)

// ErrBadRange is returned for an unparseable analytics time range.
var ErrBadRange = errors.New("invalid analytics range")

// Params filter an analytics query. Range is one of 24h, 7d, 30d, or
// custom; custom requires Start and End. An empty Range defaults to 24h.
type Params struct {
	Range string
	Start *time.Time
	End   *time.Time
}

// Report is the aggregated click statistics for one short code.
// Siblings cover every link sharing the report's original URL, the
// reported code included.
type Report struct {
	Code           string              `json:"shortCode"`
	OriginalURL    string              `json:"originalUrl"`
	Range          string              `json:"range"`
	Start          time.Time           `json:"start"`
	End            time.Time           `json:"end"`
	TotalClicks    int64               `json:"totalClicks"`
	Hourly         []HourBucket        `json:"hourly"`
	Daily          []DayBucket         `json:"daily"`
	ReferrerTop    []NameCount         `json:"refererTop"`
	UserAgentTop   []NameCount         `json:"uaTop"`
	SiblingsTop    []SiblingCount      `json:"siblingsTop"`
	SiblingsDaily  []SiblingDayBucket  `json:"siblingsDaily"`
	SiblingsHourly []SiblingHourBucket `json:"siblingsHourly"`
}

// SiblingCount is the total clicks for one link sharing the report's
// original URL. Title falls back to the code for untitled links.
type SiblingCount struct {
	Code   string `json:"shortCode"`
	Title  string `json:"title"`
	Clicks int64  `json:"clicks"`
}

// SiblingHourBucket is the hourly click count for one sibling link.
type SiblingHourBucket struct {
	Hour   time.Time `json:"hour"`
	Code   string    `json:"shortCode"`
	Title  string    `json:"title"`
	Clicks int64     `json:"clicks"`
}

// SiblingDayBucket is the daily click count for one sibling link.
type SiblingDayBucket struct {
	Date   string `json:"date"` // YYYY-MM-DD
	Code   string `json:"shortCode"`
	Title  string `json:"title"`
	Clicks int64  `json:"clicks"`
}

// LinkSource resolves links for reports. Implemented by link.Repository.
type LinkSource interface {
	GetByCode(ctx context.Context, code link.Code) (*link.Link, error)
	ListByURL(ctx context.Context, originalURL string) ([]*link.Link, error)
}

// Query computes analytics reports from the click store.
type Query struct {
	links LinkSource
	store Store
}

// NewQuery creates a new analytics query service.
func NewQuery(links LinkSource, store Store) *Query {
	return &Query{links: links, store: store}
}

// Report aggregates clicks for the code within the requested window.
// Returns link.ErrNotFound for unknown codes and ErrBadRange for
// malformed params.
func (q *Query) Report(ctx context.Context, code string, params Params) (*Report, error) {
	l, err := q.links.GetByCode(ctx, link.Code(code))
	if err != nil {
		return nil, err
	}

	start, end, rng, err := resolveWindow(params, time.Now())
	if err != nil {
		return nil, err
	}

	hourly, err := q.store.ClicksByHour(ctx, code, start, end)
	if err != nil {
		return nil, err
	}

	referrers, err := q.store.TopReferrers(ctx, code, start, end, topLimit)
	if err != nil {
		return nil, err
	}

	agents, err := q.store.TopUserAgents(ctx, code, start, end, topLimit)
	if err != nil {
		return nil, err
	}

	siblings, err := q.links.ListByURL(ctx, l.OriginalURL)
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(siblings))
	titles := make(map[string]string, len(siblings))

	for _, s := range siblings {
		codes = append(codes, string(s.Code))
		titles[string(s.Code)] = s.Title
	}

	perCode, err := q.store.ClicksByCodeHour(ctx, codes, start, end)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Code:           code,
		OriginalURL:    l.OriginalURL,
		Range:          rng,
		Start:          start,
		End:            end,
		Daily:          aggregateDaily(hourly),
		ReferrerTop:    referrers,
		UserAgentTop:   agents,
		SiblingsTop:    siblingTop(perCode, titles),
		SiblingsDaily:  siblingDaily(perCode, titles),
		SiblingsHourly: siblingHourly(perCode, titles),
	}

	for _, b := range hourly {
		report.TotalClicks += b.Clicks
	}

	// Hourly detail is only useful for short windows.
	if end.Sub(start) <= hourlyWindowMax {
		report.Hourly = hourly
	} else {
		report.Hourly = []HourBucket{}
	}

	return report, nil
}

// resolveWindow turns query params into a concrete [start, end] window.
func resolveWindow(params Params, now time.Time) (start, end time.Time, rng string, err error) {
	switch params.Range {
	case "", "24h":
		return now.Add(-24 * time.Hour), now, "24h", nil
	case "7d":
		return now.AddDate(0, 0, -7), now, "7d", nil
	case "30d":
		return now.AddDate(0, 0, -30), now, "30d", nil
	case "custom":
		if params.Start == nil || params.End == nil {
			return time.Time{}, time.Time{}, "", ErrBadRange
		}

		start, end = *params.Start, *params.End
		if !end.After(start) {
			end = start.Add(time.Minute)
		}

		return start, end, "custom", nil
	default:
		return time.Time{}, time.Time{}, "", ErrBadRange
	}
}

// siblingTitle falls back to the code for untitled links.
func siblingTitle(titles map[string]string, code string) string {
	if t := titles[code]; t != "" {
		return t
	}

	return code
}

// siblingTop totals clicks per sibling code, ordered by clicks
// descending then code.
func siblingTop(buckets []CodeHourBucket, titles map[string]string) []SiblingCount {
	totals := make(map[string]int64)
	for _, b := range buckets {
		totals[b.Code] += b.Clicks
	}

	top := make([]SiblingCount, 0, len(totals))
	for code, clicks := range totals {
		top = append(top, SiblingCount{Code: code, Title: siblingTitle(titles, code), Clicks: clicks})
	}

	sort.Slice(top, func(i, j int) bool {
		if top[i].Clicks != top[j].Clicks {
			return top[i].Clicks > top[j].Clicks
		}

		return top[i].Code < top[j].Code
	})

	return top
}

// siblingHourly decorates per-code hourly buckets with titles. Order is
// preserved from the store (hour ascending then code).
func siblingHourly(buckets []CodeHourBucket, titles map[string]string) []SiblingHourBucket {
	hourly := make([]SiblingHourBucket, 0, len(buckets))

	for _, b := range buckets {
		hourly = append(hourly, SiblingHourBucket{
			Hour:   b.Hour,
			Code:   b.Code,
			Title:  siblingTitle(titles, b.Code),
			Clicks: b.Clicks,
		})
	}

	return hourly
}

// siblingDaily folds per-code hourly buckets into per-day totals,
// ordered by date ascending then code.
func siblingDaily(buckets []CodeHourBucket, titles map[string]string) []SiblingDayBucket {
	type key struct {
		date string
		code string
	}

	totals := make(map[key]int64)
	for _, b := range buckets {
		totals[key{b.Hour.UTC().Format("2006-01-02"), b.Code}] += b.Clicks
	}

	daily := make([]SiblingDayBucket, 0, len(totals))
	for k, clicks := range totals {
		daily = append(daily, SiblingDayBucket{
			Date:   k.date,
			Code:   k.code,
			Title:  siblingTitle(titles, k.code),
			Clicks: clicks,
		})
	}

	sort.Slice(daily, func(i, j int) bool {
		if daily[i].Date != daily[j].Date {
			return daily[i].Date < daily[j].Date
		}

		return daily[i].Code < daily[j].Code
	})

	return daily
}

// aggregateDaily folds hourly buckets into per-day totals, ordered by
// date ascending.
func aggregateDaily(hourly []HourBucket) []DayBucket {
	daily := make([]DayBucket, 0, len(hourly))

	for _, b := range hourly {
		date := b.Hour.UTC().Format("2006-01-02")

		if n := len(daily); n > 0 && daily[n-1].Date == date {
			daily[n-1].Clicks += b.Clicks

			continue
		}

		daily = append(daily, DayBucket{Date: date, Clicks: b.Clicks})
	}

	return daily
}
