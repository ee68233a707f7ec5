package fetch

import (
    "context"
    "errors"
    "fmt"
    "testing"

    "github.com/rs/zerolog"
)

type fakeTracker struct {
    searchCalls  int
    worklogCalls int
    search       func(call, startAt int) (map[string]any, error)
    worklogs     func(key string, startAt int) (map[string]any, error)
}

func (f *fakeTracker) Search(ctx context.Context, jql string, startAt, max int, fields []string, expandNames bool) (map[string]any, error) {
    f.searchCalls++
    return f.search(f.searchCalls, startAt)
}

func (f *fakeTracker) Worklogs(ctx context.Context, key string, startAt, max int) (map[string]any, error) {
    f.worklogCalls++
    return f.worklogs(key, startAt)
}

func issuePage(total int, keys ...string) map[string]any {
    arr := make([]any, 0, len(keys))
    for _, k := range keys {
        arr = append(arr, map[string]any{"key": k, "fields": map[string]any{}})
    }
    return map[string]any{"issues": arr, "total": float64(total)}
}

func TestSearchAll_UsesLatestTotal(t *testing.T) {
    // total shrinks from 5 to 3 between pages; the fetcher must stop after
    // page two instead of chasing the stale first-page total
    tr := &fakeTracker{
        search: func(call, startAt int) (map[string]any, error) {
            switch call {
            case 1:
                if startAt != 0 { t.Fatalf("first page startAt = %d", startAt) }
                return issuePage(5, "A-1", "A-2"), nil
            case 2:
                if startAt != 2 { t.Fatalf("second page startAt = %d", startAt) }
                return issuePage(3, "A-3"), nil
            }
            t.Fatalf("unexpected extra page request, call %d", call)
            return nil, nil
        },
    }
    f := New(tr, zerolog.Nop(), 2, 1)
    issues, _, err := f.SearchAll(context.Background(), "jql", nil, false)
    if err != nil { t.Fatalf("SearchAll: %v", err) }
    if len(issues) != 3 { t.Fatalf("got %d issues, want 3", len(issues)) }
    if tr.searchCalls != 2 { t.Fatalf("search calls = %d, want 2", tr.searchCalls) }
}

func TestSearchAll_GrowingTotal(t *testing.T) {
    // total grows mid-fetch; the new total must be honored
    tr := &fakeTracker{
        search: func(call, startAt int) (map[string]any, error) {
            switch call {
            case 1:
                return issuePage(3, "A-1", "A-2"), nil
            case 2:
                return issuePage(4, "A-3", "A-4"), nil
            }
            return nil, errors.New("too many pages")
        },
    }
    f := New(tr, zerolog.Nop(), 2, 1)
    issues, _, err := f.SearchAll(context.Background(), "jql", nil, false)
    if err != nil { t.Fatalf("SearchAll: %v", err) }
    if len(issues) != 4 { t.Fatalf("got %d issues, want 4", len(issues)) }
    if tr.searchCalls != 2 { t.Fatalf("search calls = %d, want 2", tr.searchCalls) }
}

func TestSearchAll_PageFailureIsFatal(t *testing.T) {
    tr := &fakeTracker{
        search: func(call, startAt int) (map[string]any, error) {
            if call == 1 { return issuePage(4, "A-1", "A-2"), nil }
            return nil, errors.New("boom")
        },
    }
    f := New(tr, zerolog.Nop(), 2, 1)
    if _, _, err := f.SearchAll(context.Background(), "jql", nil, false); err == nil {
        t.Fatal("expected fetch failure")
    }
}

func TestSearchAll_MergesNames(t *testing.T) {
    tr := &fakeTracker{
        search: func(call, startAt int) (map[string]any, error) {
            page := issuePage(1, "A-1")
            page["names"] = map[string]any{"customfield_10101": "Sprint"}
            return page, nil
        },
    }
    f := New(tr, zerolog.Nop(), 100, 1)
    _, names, err := f.SearchAll(context.Background(), "jql", nil, true)
    if err != nil { t.Fatalf("SearchAll: %v", err) }
    if names["customfield_10101"] != "Sprint" { t.Fatalf("names = %v", names) }
}

func worklogEntry(id string, secs int) map[string]any {
    return map[string]any{"id": id, "started": "2025-09-23T09:00:00.000+0330", "timeSpentSeconds": float64(secs)}
}

func issueWithWorklogs(key string, total int, embedded ...map[string]any) map[string]any {
    arr := make([]any, 0, len(embedded))
    for _, e := range embedded { arr = append(arr, e) }
    return map[string]any{
        "key": key,
        "fields": map[string]any{
            "worklog": map[string]any{"total": float64(total), "worklogs": arr},
        },
    }
}

func TestIssueWorklogs_CompleteEmbedded(t *testing.T) {
    // B-1's embedded page is complete, B-2 needs a completion pass
    issues := []map[string]any{
        issueWithWorklogs("B-1", 1, worklogEntry("10", 3600)),
        issueWithWorklogs("B-2", 3, worklogEntry("20", 1800)),
    }
    tr := &fakeTracker{
        worklogs: func(key string, startAt int) (map[string]any, error) {
            if key != "B-2" { t.Fatalf("unexpected completion fetch for %s", key) }
            if startAt != 1 { t.Fatalf("remainder must start at embedded length, got %d", startAt) }
            return map[string]any{
                "total":    float64(3),
                "worklogs": []any{worklogEntry("21", 1800), worklogEntry("22", 1800)},
            }, nil
        },
    }
    f := New(tr, zerolog.Nop(), 100, 2)
    got, err := f.IssueWorklogs(context.Background(), issues)
    if err != nil { t.Fatalf("IssueWorklogs: %v", err) }
    if len(got["B-1"]) != 1 { t.Fatalf("B-1: %d entries", len(got["B-1"])) }
    if len(got["B-2"]) != 3 { t.Fatalf("B-2: %d entries, want embedded+remainder", len(got["B-2"])) }
    if got["B-2"][0]["id"] != "20" || got["B-2"][1]["id"] != "21" {
        t.Fatalf("embedded entries must come first: %v", got["B-2"])
    }
    if tr.worklogCalls != 1 { t.Fatalf("worklog calls = %d, want 1", tr.worklogCalls) }
}

func TestIssueWorklogs_OverlapKeptForAggregator(t *testing.T) {
    // server re-serves an embedded entry in the completion pass; the fetcher
    // concatenates without merging, dedup is the aggregator's job
    issues := []map[string]any{issueWithWorklogs("C-1", 2, worklogEntry("30", 3600))}
    tr := &fakeTracker{
        worklogs: func(key string, startAt int) (map[string]any, error) {
            return map[string]any{
                "total":    float64(3),
                "worklogs": []any{worklogEntry("30", 3600), worklogEntry("31", 1800)},
            }, nil
        },
    }
    f := New(tr, zerolog.Nop(), 100, 2)
    got, err := f.IssueWorklogs(context.Background(), issues)
    if err != nil { t.Fatalf("IssueWorklogs: %v", err) }
    if len(got["C-1"]) != 3 { t.Fatalf("got %d entries, want 3 (overlap preserved)", len(got["C-1"])) }
}

func TestIssueWorklogs_CompletionFailureIsFatal(t *testing.T) {
    issues := []map[string]any{
        issueWithWorklogs("D-1", 2, worklogEntry("40", 3600)),
        issueWithWorklogs("D-2", 2, worklogEntry("50", 3600)),
    }
    tr := &fakeTracker{
        worklogs: func(key string, startAt int) (map[string]any, error) {
            if key == "D-2" { return nil, fmt.Errorf("tracker down") }
            return map[string]any{"total": float64(2), "worklogs": []any{worklogEntry("41", 60)}}, nil
        },
    }
    f := New(tr, zerolog.Nop(), 100, 2)
    if _, err := f.IssueWorklogs(context.Background(), issues); err == nil {
        t.Fatal("expected fetch failure")
    }
}
