/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package report

import (
    "context"
    "fmt"
    "sync"

    "github.com/mahdizarei0614/jalaali-jira-worklogs-sub000/internal/domain"
    "github.com/mahdizarei0614/jalaali-jira-worklogs-sub000/internal/jalaali"
)

type monthKey struct{ year, month int }

// MonthCache reuses month reports across builds in one session, keyed by
// (year, month). Writes are first-wins: a duplicate concurrent computation
// is wasted work, never an inconsistency. The cache is scoped to the caller
// and discarded with it.
type MonthCache struct {
    mu sync.Mutex
    m  map[monthKey]*domain.MonthReport
}

func NewMonthCache() *MonthCache {
    return &MonthCache{m: map[monthKey]*domain.MonthReport{}}
}

func (c *MonthCache) Get(year, month int) *domain.MonthReport {
    c.mu.Lock()
    defer c.mu.Unlock()
    return c.m[monthKey{year, month}]
}

// PutIfAbsent stores r unless the key is already present and returns the
// report now held for the key.
func (c *MonthCache) PutIfAbsent(year, month int, r *domain.MonthReport) *domain.MonthReport {
    c.mu.Lock()
    defer c.mu.Unlock()
    k := monthKey{year, month}
    if cur, ok := c.m[k]; ok { return cur }
    c.m[k] = r
    return r
}

// Quarter builds the four fixed seasons of a Jalaali year. Months already in
// the cache are reused; the rest are fetched concurrently with a bounded
// fan-out. Season and grand totals are straight sums of the already-rounded
// month totals, re-rounded; they are intentionally not re-derived from raw
// seconds so they always match previously displayed month figures.
func (b *Builder) Quarter(ctx context.Context, jy int, user domain.User, cache *MonthCache) (*domain.QuarterReport, error) {
    if _, _, err := jalaali.MonthRange(jy, 1); err != nil {
        return nil, fmt.Errorf("calendar: %w", err)
    }
    if cache == nil { cache = NewMonthCache() }

    workers := b.cfg.WorkersMonth
    if workers <= 0 { workers = 3 }
    type result struct {
        month int
        rep   *domain.MonthReport
        err   error
    }
    jobs := make(chan int)
    results := make(chan result)
    var wg sync.WaitGroup
    for w := 0; w < workers; w++ {
        wg.Add(1)
        go func() {
            defer wg.Done()
            for jm := range jobs {
                if rep := cache.Get(jy, jm); rep != nil {
                    results <- result{month: jm, rep: rep}
                    continue
                }
                rep, err := b.Month(ctx, jy, jm, user, Options{})
                if err == nil { rep = cache.PutIfAbsent(jy, jm, rep) }
                results <- result{month: jm, rep: rep, err: err}
            }
        }()
    }
    go func() {
        for jm := 1; jm <= 12; jm++ { jobs <- jm }
        close(jobs)
        wg.Wait()
        close(results)
    }()

    var months [13]*domain.MonthReport
    var firstErr error
    for r := range results {
        if r.err != nil {
            if firstErr == nil { firstErr = fmt.Errorf("month %d: %w", r.month, r.err) }
            continue
        }
        months[r.month] = r.rep
    }
    if firstErr != nil { return nil, firstErr }

    out := &domain.QuarterReport{Year: jy, Seasons: make([]domain.SeasonReport, 0, 4)}
    var grand float64
    for s := 0; s < 4; s++ {
        season := domain.SeasonReport{Index: s, Months: make([]domain.MonthTotal, 0, 3)}
        var sum float64
        for i := 0; i < 3; i++ {
            jm := s*3 + i + 1
            rep := months[jm]
            season.Months = append(season.Months, domain.MonthTotal{
                Year:          jy,
                Month:         jm,
                TotalHours:    rep.TotalHours,
                ExpectedByEnd: rep.ExpectedByEnd,
            })
            sum += rep.TotalHours
        }
        season.TotalHours = round2(sum)
        grand += sum
        out.Seasons = append(out.Seasons, season)
    }
    out.TotalHours = round2(grand)
    b.log.Info().Int("year", jy).Float64("total_hours", out.TotalHours).Msg("quarter report built")
    return out, nil
}
