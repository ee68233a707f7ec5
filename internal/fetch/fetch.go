/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */

// Package fetch drains paginated tracker endpoints. Page loops always trust
// the latest reported total rather than the first page's, so totals that
// shift mid-fetch (records added or removed server-side) cannot strand or
// duplicate a page boundary.
package fetch

import (
    "context"
    "fmt"
    "sync"

    "github.com/mahdizarei0614/jalaali-jira-worklogs-sub000/internal/normalize"
    "github.com/rs/zerolog"
)

// Tracker is the capability the fetcher needs from the issue tracker.
type Tracker interface {
    Search(ctx context.Context, jql string, startAt, max int, fields []string, expandNames bool) (map[string]any, error)
    Worklogs(ctx context.Context, key string, startAt, max int) (map[string]any, error)
}

type Fetcher struct {
    tr       Tracker
    log      zerolog.Logger
    pageSize int
    workers  int
}

func New(tr Tracker, log zerolog.Logger, pageSize, workers int) *Fetcher {
    if pageSize <= 0 { pageSize = 100 }
    if workers <= 0 { workers = 6 }
    return &Fetcher{tr: tr, log: log, pageSize: pageSize, workers: workers}
}

// pageMeta reads startAt/maxResults/total metadata off a page.
func pageMeta(page map[string]any) (total int, ok bool) {
    t, ok := page["total"].(float64)
    return int(t), ok
}

// SearchAll retrieves every page of a JQL search. It returns the raw issue
// maps and the merged key->label field dictionary (when expandNames). A
// single failed page fails the whole fetch.
func (f *Fetcher) SearchAll(ctx context.Context, jql string, fields []string, expandNames bool) ([]map[string]any, map[string]string, error) {
    var issues []map[string]any
    names := map[string]string{}
    startAt := 0
    for {
        page, err := f.tr.Search(ctx, jql, startAt, f.pageSize, fields, expandNames)
        if err != nil { return nil, nil, fmt.Errorf("search page startAt=%d: %w", startAt, err) }
        arr, _ := page["issues"].([]any)
        for _, it := range arr {
            if im, _ := it.(map[string]any); im != nil { issues = append(issues, im) }
        }
        for k, v := range normalize.Names(page) { names[k] = v }
        if len(arr) == 0 { break }
        startAt += len(arr)
        // re-read total every page; it may move while we fetch
        if total, ok := pageMeta(page); ok && startAt >= total { break }
    }
    f.log.Debug().Str("jql", jql).Int("issues", len(issues)).Msg("search drained")
    return issues, names, nil
}

// worklogsFrom retrieves an issue's worklog pages starting at the given
// offset.
func (f *Fetcher) worklogsFrom(ctx context.Context, key string, startAt int) ([]map[string]any, error) {
    var out []map[string]any
    for {
        page, err := f.tr.Worklogs(ctx, key, startAt, f.pageSize)
        if err != nil { return nil, fmt.Errorf("worklogs %s startAt=%d: %w", key, startAt, err) }
        arr, _ := page["worklogs"].([]any)
        for _, it := range arr {
            if wm, _ := it.(map[string]any); wm != nil { out = append(out, wm) }
        }
        if len(arr) == 0 { break }
        startAt += len(arr)
        if total, ok := pageMeta(page); ok && startAt >= total { break }
    }
    return out, nil
}

// IssueWorklogs returns every worklog entry per issue key. The worklog page
// embedded in a search result is often truncated; when the embedded count is
// below the issue's reported total, a dedicated pagination pass fetches the
// remainder and the two sources are concatenated. Deduplication by identity
// key happens later, in the aggregator.
//
// Completion fetches are independent per issue and run on a bounded worker
// pool; the result map is assembled only after all workers finish, so the
// hand-off to aggregation is a fully materialized list.
func (f *Fetcher) IssueWorklogs(ctx context.Context, issues []map[string]any) (map[string][]map[string]any, error) {
    type job struct {
        key      string
        embedded []map[string]any
        from     int
    }
    out := make(map[string][]map[string]any, len(issues))
    var jobsList []job
    for _, im := range issues {
        key := normalize.ToStr(im["key"])
        if key == "" { continue }
        fields, _ := im["fields"].(map[string]any)
        wl, _ := fields["worklog"].(map[string]any)
        var embedded []map[string]any
        total := 0
        if wl != nil {
            if t, ok := wl["total"].(float64); ok { total = int(t) }
            if arr, ok := wl["worklogs"].([]any); ok {
                for _, it := range arr {
                    if wm, _ := it.(map[string]any); wm != nil { embedded = append(embedded, wm) }
                }
            }
        }
        if total > len(embedded) {
            jobsList = append(jobsList, job{key: key, embedded: embedded, from: len(embedded)})
        } else {
            out[key] = embedded
        }
    }
    if len(jobsList) == 0 { return out, nil }

    type result struct {
        key  string
        rest []map[string]any
        err  error
    }
    jobs := make(chan job)
    results := make(chan result)
    var wg sync.WaitGroup
    for w := 0; w < f.workers; w++ {
        wg.Add(1)
        go func() {
            defer wg.Done()
            for j := range jobs {
                rest, err := f.worklogsFrom(ctx, j.key, j.from)
                results <- result{key: j.key, rest: rest, err: err}
            }
        }()
    }
    go func() {
        for _, j := range jobsList { jobs <- j }
        close(jobs)
        wg.Wait()
        close(results)
    }()
    rests := make(map[string][]map[string]any, len(jobsList))
    var firstErr error
    for r := range results {
        if r.err != nil {
            if firstErr == nil { firstErr = r.err }
            continue
        }
        rests[r.key] = r.rest
    }
    if firstErr != nil { return nil, firstErr }
    // concatenate embedded + remainder in issue order
    for _, j := range jobsList {
        out[j.key] = append(j.embedded, rests[j.key]...)
    }
    f.log.Debug().Int("completed_issues", len(jobsList)).Msg("worklog completion pass done")
    return out, nil
}
