/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */

// Package report orchestrates the month and quarter builds: calendar range
// resolution, issue search, worklog aggregation, day classification and the
// optional detail sections. The builder is a pure function of (config,
// calendar table, tracker capability); it reads no ambient state.
package report

import (
    "context"
    "fmt"
    "sort"
    "time"

    "github.com/mahdizarei0614/jalaali-jira-worklogs-sub000/internal/config"
    "github.com/mahdizarei0614/jalaali-jira-worklogs-sub000/internal/domain"
    "github.com/mahdizarei0614/jalaali-jira-worklogs-sub000/internal/fetch"
    "github.com/mahdizarei0614/jalaali-jira-worklogs-sub000/internal/jalaali"
    "github.com/mahdizarei0614/jalaali-jira-worklogs-sub000/internal/normalize"
    "github.com/rs/zerolog"
)

// Identity resolves "who am I" against the tracker.
type Identity interface {
    Myself(ctx context.Context) (map[string]any, error)
}

type Builder struct {
    cfg      config.Config
    log      zerolog.Logger
    fetcher  *fetch.Fetcher
    identity Identity
    holidays jalaali.HolidayTable
    now      func() time.Time
}

func NewBuilder(cfg config.Config, log zerolog.Logger, f *fetch.Fetcher, id Identity, holidays jalaali.HolidayTable) *Builder {
    return &Builder{cfg: cfg, log: log, fetcher: f, identity: id, holidays: holidays, now: time.Now}
}

// Options selects the optional detail sections of a month report.
type Options struct {
    Detail bool
}

var searchFields = []string{
    "summary", "status", "issuetype", "duedate", "updated", "project", "components",
    "timetracking", "timeoriginalestimate", "timespent", "timeestimate",
    "aggregatetimeoriginalestimate", "aggregatetimespent", "aggregatetimeestimate",
    "worklog",
}

// ResolveUser returns the configured target user, or asks the tracker for
// the credential's own identity when none is configured.
func (b *Builder) ResolveUser(ctx context.Context) (domain.User, error) {
    if b.cfg.TargetUsername != "" || b.cfg.TargetAccountID != "" {
        return domain.User{Name: b.cfg.TargetUsername, AccountID: b.cfg.TargetAccountID}, nil
    }
    m, err := b.identity.Myself(ctx)
    if err != nil { return domain.User{}, fmt.Errorf("resolve user: %w", err) }
    u := normalize.UserIdentity(m)
    if u.Name == "" && u.AccountID == "" { return domain.User{}, fmt.Errorf("resolve user: empty identity") }
    return u, nil
}

func (b *Builder) whoClause(user domain.User) string {
    if user.Name != "" { return user.Name }
    return user.AccountID
}

// Month builds one Jalaali month's compliance report. Range resolution and
// the primary search/aggregation stages are required: their failure fails
// the report. The detail sections attach under their own failure boundaries.
func (b *Builder) Month(ctx context.Context, jy, jm int, user domain.User, opt Options) (*domain.MonthReport, error) {
    start, end, err := jalaali.MonthRange(jy, jm)
    if err != nil { return nil, fmt.Errorf("calendar: %w", err) }

    who := b.whoClause(user)
    jql := fmt.Sprintf("worklogAuthor = %q AND worklogDate >= %q AND worklogDate <= %q",
        who, start.Format("2006-01-02"), end.Format("2006-01-02"))
    issues, _, err := b.fetcher.SearchAll(ctx, jql, searchFields, false)
    if err != nil { return nil, fmt.Errorf("issue search: %w", err) }

    byIssue, err := b.fetcher.IssueWorklogs(ctx, issues)
    if err != nil { return nil, fmt.Errorf("worklog fetch: %w", err) }

    agg := NewAggregator(user, start, end, opt.Detail)
    for _, im := range issues {
        key := normalize.ToStr(im["key"])
        for _, wm := range byIssue[key] {
            if rec, ok := normalize.Worklog(key, wm); ok { agg.Add(rec) }
        }
    }

    now := b.now()
    n := jalaali.MonthLength(jy, jm)
    rep := &domain.MonthReport{Year: jy, Month: jm, Days: make([]domain.DayBucket, 0, n)}
    var expectedByNow, expectedByEnd float64
    for d := 1; d <= n; d++ {
        g, err := jalaali.ToGregorian(jy, jm, d)
        if err != nil { return nil, fmt.Errorf("calendar: %w", err) }
        dayKey := g.Format("2006-01-02")
        weekend := jalaali.IsWeekend(g)
        holiday := b.holidays.IsHoliday(jy, jm, d)
        future := g.After(now)
        workday := !(weekend || holiday)
        hours := agg.Hours(dayKey)
        bucket := domain.DayBucket{
            Date:    dayKey,
            Jalaali: fmt.Sprintf("%04d-%02d-%02d", jy, jm, d),
            JYear:   jy,
            JMonth:  jm,
            JDay:    d,
            Weekday: jalaali.WeekdayIndex(g),
            Weekend: weekend,
            Holiday: holiday,
            Future:  future,
            Workday: workday,
            Hours:   round2(hours),
            Color:   string(jalaali.Color(workday, future, hours)),
        }
        rep.Days = append(rep.Days, bucket)
        if workday { expectedByEnd += jalaali.QuotaHours }
        if workday && !future {
            expectedByNow += jalaali.QuotaHours
            if hours < jalaali.QuotaHours { rep.DeficitDays = append(rep.DeficitDays, bucket) }
        }
    }
    rep.TotalHours = round2(agg.Total())
    rep.ExpectedByNow = round2(expectedByNow)
    rep.ExpectedByEnd = round2(expectedByEnd)

    if opt.Detail {
        rep.Worklogs = agg.Items()
        dueJQL := fmt.Sprintf("assignee = %q AND due >= %q AND due <= %q",
            who, start.Format("2006-01-02"), end.Format("2006-01-02"))
        rep.DueIssues = b.issueSection(ctx, dueJQL, byDueAsc)
        rep.Assigned = b.issueSection(ctx, fmt.Sprintf("assignee = %q AND resolution = Unresolved", who), byUpdatedDesc)
    }
    b.log.Info().Int("year", jy).Int("month", jm).Int("records", agg.Count()).
        Float64("total_hours", rep.TotalHours).Msg("month report built")
    return rep, nil
}

func byDueAsc(a, b domain.Issue) bool {
    switch {
    case a.DueDate == nil:
        return false
    case b.DueDate == nil:
        return true
    }
    return a.DueDate.Before(*b.DueDate)
}

func byUpdatedDesc(a, b domain.Issue) bool {
    switch {
    case a.UpdatedAt == nil:
        return false
    case b.UpdatedAt == nil:
        return true
    }
    return a.UpdatedAt.After(*b.UpdatedAt)
}

// issueSection runs one auxiliary issue listing under its own failure
// boundary: a tracker error flags the section instead of failing the month.
func (b *Builder) issueSection(ctx context.Context, jql string, less func(a, b domain.Issue) bool) *domain.IssueSection {
    raw, names, err := b.fetcher.SearchAll(ctx, jql, append(searchFields, "customfield_10020"), true)
    if err != nil {
        b.log.Warn().Err(err).Str("jql", jql).Msg("aux section degraded")
        return &domain.IssueSection{OK: false, Error: err.Error(), Issues: []domain.Issue{}}
    }
    issues := make([]domain.Issue, 0, len(raw))
    for _, im := range raw {
        iss := normalize.Issue(im, names)
        if iss.Key == "" { continue }
        issues = append(issues, iss)
    }
    sort.SliceStable(issues, func(i, j int) bool { return less(issues[i], issues[j]) })
    return &domain.IssueSection{OK: true, Issues: issues}
}

// MonthLabel formats a Jalaali month for logs and messages.
func MonthLabel(jy, jm int) string {
    names := []string{"Farvardin", "Ordibehesht", "Khordad", "Tir", "Mordad", "Shahrivar",
        "Mehr", "Aban", "Azar", "Dey", "Bahman", "Esfand"}
    if jm < 1 || jm > 12 { return fmt.Sprintf("%d-%02d", jy, jm) }
    return fmt.Sprintf("%s %d", names[jm-1], jy)
}

// CurrentMonth returns the Jalaali year and month the clock is in right now.
func (b *Builder) CurrentMonth() (int, int) {
    jy, jm, _ := jalaali.ToJalaali(b.now())
    return jy, jm
}
