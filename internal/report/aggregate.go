/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package report

import (
    "fmt"
    "math"
    "sort"
    "strings"
    "time"

    "github.com/mahdizarei0614/jalaali-jira-worklogs-sub000/internal/domain"
    "github.com/mahdizarei0614/jalaali-jira-worklogs-sub000/internal/jalaali"
)

func round2(x float64) float64 { return math.Round(x*100) / 100 }

// Aggregator folds normalized work records into per-day hour buckets for one
// month build. It is single-threaded by design: fetch concurrency ends
// before records reach it. Records are rejected when the author is not the
// target user, the identity key was already seen in this build, or the start
// falls outside the month's Gregorian range (the initiating query already
// constrains the range, but cross-timezone rounding can push a record one
// day out).
type Aggregator struct {
    user   domain.User
    start  time.Time
    end    time.Time
    detail bool
    seen   map[string]struct{}
    days   map[string]float64
    total  float64
    items  []domain.WorklogItem
}

func NewAggregator(user domain.User, start, end time.Time, detail bool) *Aggregator {
    return &Aggregator{
        user:   user,
        start:  start,
        end:    end,
        detail: detail,
        seen:   map[string]struct{}{},
        days:   map[string]float64{},
    }
}

// matches accepts a record when either identity field lines up: the
// username (Server) or the account id (Cloud).
func (a *Aggregator) matches(rec domain.WorkRecord) bool {
    if a.user.Name != "" && strings.EqualFold(rec.Author, a.user.Name) { return true }
    if a.user.AccountID != "" && rec.AuthorKey == a.user.AccountID { return true }
    return false
}

// Add folds one record in; it reports whether the record was accepted.
func (a *Aggregator) Add(rec domain.WorkRecord) bool {
    if !a.matches(rec) { return false }
    if _, dup := a.seen[rec.Key]; dup { return false }
    st := rec.StartedAt.In(jalaali.Zone)
    if st.Before(a.start) || st.After(a.end) { return false }
    a.seen[rec.Key] = struct{}{}
    day := st.Format("2006-01-02")
    h := float64(rec.Seconds) / 3600
    a.days[day] += h
    a.total += h
    if a.detail {
        jy, jm, jd := jalaali.ToJalaali(rec.StartedAt)
        a.items = append(a.items, domain.WorklogItem{
            IssueKey:  rec.IssueKey,
            Date:      day,
            Jalaali:   fmt.Sprintf("%04d-%02d-%02d", jy, jm, jd),
            StartedAt: rec.StartedAt,
            Hours:     round2(h),
            Comment:   rec.Comment,
        })
    }
    return true
}

// Hours returns the unrounded accumulated hours for a Gregorian day key.
func (a *Aggregator) Hours(day string) float64 { return a.days[day] }

// Total returns the unrounded accumulated hours over the whole build.
func (a *Aggregator) Total() float64 { return a.total }

// Count returns how many distinct records were accepted.
func (a *Aggregator) Count() int { return len(a.seen) }

// Items returns the detail line items sorted ascending by start time.
func (a *Aggregator) Items() []domain.WorklogItem {
    sort.Slice(a.items, func(i, j int) bool { return a.items[i].StartedAt.Before(a.items[j].StartedAt) })
    return a.items
}
