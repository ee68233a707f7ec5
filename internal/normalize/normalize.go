/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */

// Package normalize canonicalizes heterogeneous tracker payloads. Issues and
// worklogs arrive as decoded JSON of unknown shape; every extractor here
// degrades to zero values or drops the entry instead of failing the build.
package normalize

import (
    "fmt"
    "strconv"
    "strings"
    "time"

    "github.com/mahdizarei0614/jalaali-jira-worklogs-sub000/internal/domain"
)

// ToStr renders any scalar as a string, "" for nil.
func ToStr(v any) string {
    if v == nil { return "" }
    if s, ok := v.(string); ok { return s }
    return fmt.Sprintf("%v", v)
}

// ParseTime parses tracker timestamps in the formats Jira emits.
func ParseTime(v any) *time.Time {
    s, _ := v.(string)
    if s == "" { return nil }
    layouts := []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.000-0700", "2006-01-02T15:04:05-0700", "2006-01-02"}
    for _, l := range layouts {
        if t, err := time.Parse(l, s); err == nil {
            tt := t.UTC(); return &tt
        }
    }
    return nil
}

// seconds coerces a numeric field to int seconds; ok=false when the value is
// absent or not numeric.
func seconds(v any) (int, bool) {
    switch t := v.(type) {
    case float64:
        return int(t), true
    case int:
        return t, true
    case int64:
        return int(t), true
    case string:
        n, err := strconv.Atoi(strings.TrimSpace(t))
        if err != nil { return 0, false }
        return n, true
    }
    return 0, false
}

// TimeTracking reconciles estimate figures from an issue's fields map.
// Direct fields win, then the aggregate variants, then the timetracking
// object; a still-missing remaining derives as max(0, original-spent) and a
// missing original as spent+remaining. Missing or non-numeric inputs
// degrade to 0, never an error.
func TimeTracking(fields map[string]any) domain.TimeTracking {
    pick := func(keys ...string) (int, bool) {
        for _, k := range keys {
            if n, ok := seconds(fields[k]); ok { return n, true }
        }
        if tt, ok := fields["timetracking"].(map[string]any); ok {
            sub := map[string]string{
                "timeoriginalestimate": "originalEstimateSeconds",
                "timespent":            "timeSpentSeconds",
                "timeestimate":         "remainingEstimateSeconds",
            }
            if sk := sub[keys[0]]; sk != "" {
                if n, ok := seconds(tt[sk]); ok { return n, true }
            }
        }
        return 0, false
    }
    orig, haveOrig := pick("timeoriginalestimate", "aggregatetimeoriginalestimate")
    spent, _ := pick("timespent", "aggregatetimespent")
    rem, haveRem := pick("timeestimate", "aggregatetimeestimate")
    if !haveRem {
        rem = orig - spent
        if rem < 0 { rem = 0 }
    }
    if !haveOrig { orig = spent + rem }
    return domain.TimeTracking{OriginalSeconds: orig, SpentSeconds: spent, RemainingSeconds: rem}
}

// TagValues extracts a set of tag names from a custom-field value. Accepted
// shapes: plain string, object with name/value/label, serialized sprint
// string containing "name=...", or an array of any of those. Unparseable
// entries are dropped silently.
func TagValues(v any) []string {
    var out []string
    seen := map[string]struct{}{}
    push := func(s string) {
        s = strings.TrimSpace(s)
        if s == "" { return }
        if _, ok := seen[s]; ok { return }
        seen[s] = struct{}{}
        out = append(out, s)
    }
    var walk func(v any)
    walk = func(v any) {
        switch t := v.(type) {
        case string:
            if name := serializedName(t); name != "" { push(name); return }
            push(t)
        case map[string]any:
            if s, ok := t["name"].(string); ok { push(s); return }
            if s, ok := t["value"].(string); ok { push(s); return }
            if s, ok := t["label"].(string); ok { push(s); return }
        case []any:
            for _, it := range t { walk(it) }
        }
    }
    walk(v)
    return out
}

// serializedName pulls name=... out of Jira's serialized sprint strings
// ("com.atlassian.greenhopper...[id=3,name=Sprint 7,state=ACTIVE,...]").
func serializedName(s string) string {
    idx := strings.Index(s, "name=")
    if idx < 0 { return "" }
    rest := s[idx+len("name="):]
    if end := strings.IndexAny(rest, ",]"); end >= 0 { rest = rest[:end] }
    return strings.TrimSpace(rest)
}

// FieldKeyByLabel resolves a custom-field key from the tracker's key->label
// dictionary by case-insensitive exact label match. Custom field ids are
// unstable across tracker instances; the human label is not.
func FieldKeyByLabel(names map[string]string, label string) string {
    for key, l := range names {
        if strings.EqualFold(strings.TrimSpace(l), strings.TrimSpace(label)) { return key }
    }
    return ""
}

// SprintNames extracts sprint names for an issue, preferring the field the
// tracker labels "Sprint" over the generic fallback key.
func SprintNames(fields map[string]any, names map[string]string) []string {
    if key := FieldKeyByLabel(names, "Sprint"); key != "" {
        if tags := TagValues(fields[key]); len(tags) > 0 { return tags }
    }
    if tags := TagValues(fields["sprint"]); len(tags) > 0 { return tags }
    return TagValues(fields["customfield_10020"])
}

// BoardNames extracts board/component names with the same precedence rule.
func BoardNames(fields map[string]any, names map[string]string) []string {
    if key := FieldKeyByLabel(names, "Board"); key != "" {
        if tags := TagValues(fields[key]); len(tags) > 0 { return tags }
    }
    return TagValues(fields["components"])
}

// ProjectNames extracts project names for an issue.
func ProjectNames(fields map[string]any, names map[string]string) []string {
    if key := FieldKeyByLabel(names, "Project"); key != "" {
        if tags := TagValues(fields[key]); len(tags) > 0 { return tags }
    }
    var out []string
    if pj, ok := fields["project"].(map[string]any); ok {
        if n := ToStr(pj["name"]); n != "" {
            out = append(out, n)
        } else if k := ToStr(pj["key"]); k != "" {
            out = append(out, k)
        }
    }
    return out
}

// UserIdentity reads the identity fields of a user payload (myself endpoint
// or an embedded author object).
func UserIdentity(m map[string]any) domain.User {
    if m == nil { return domain.User{} }
    u := domain.User{
        Name:        ToStr(m["name"]),
        AccountID:   ToStr(m["accountId"]),
        DisplayName: ToStr(m["displayName"]),
        Email:       ToStr(m["emailAddress"]),
    }
    if u.AccountID == "" { u.AccountID = ToStr(m["key"]) }
    return u
}

// Worklog normalizes one raw worklog entry. The identity key prefers the
// tracker's worklog id; without one it falls back to a fingerprint of issue
// key, author, start time and duration, which keeps the merge idempotent as
// long as the source supplies those consistently. Entries without a start
// timestamp are dropped.
func Worklog(issueKey string, m map[string]any) (domain.WorkRecord, bool) {
    if m == nil { return domain.WorkRecord{}, false }
    started := ParseTime(m["started"])
    if started == nil { return domain.WorkRecord{}, false }
    secs, _ := seconds(m["timeSpentSeconds"])
    if secs < 0 { secs = 0 }
    author := ""
    authorKey := ""
    if a, ok := m["author"].(map[string]any); ok {
        author = ToStr(a["name"])
        if author == "" { author = ToStr(a["displayName"]) }
        authorKey = ToStr(a["accountId"])
        if authorKey == "" { authorKey = ToStr(a["key"]) }
    }
    rec := domain.WorkRecord{
        Key:       ToStr(m["id"]),
        IssueKey:  issueKey,
        Author:    author,
        AuthorKey: authorKey,
        StartedAt: *started,
        Seconds:   secs,
        Comment:   commentText(m["comment"]),
    }
    if rec.Key == "" {
        rec.Key = fmt.Sprintf("%s|%s|%d|%d", issueKey, author, started.Unix(), secs)
    }
    return rec, true
}

// commentText flattens a worklog comment: plain string on API v2, an ADF
// document on v3.
func commentText(v any) string {
    switch t := v.(type) {
    case string:
        return t
    case map[string]any:
        var b strings.Builder
        var walk func(n map[string]any)
        walk = func(n map[string]any) {
            if s, ok := n["text"].(string); ok { b.WriteString(s) }
            if cs, ok := n["content"].([]any); ok {
                for _, c := range cs {
                    if cm, ok := c.(map[string]any); ok { walk(cm) }
                }
            }
        }
        walk(t)
        return b.String()
    }
    return ""
}

// Issue normalizes one raw issue from a search page.
func Issue(m map[string]any, names map[string]string) domain.Issue {
    fields, _ := m["fields"].(map[string]any)
    if fields == nil { fields = map[string]any{} }
    out := domain.Issue{
        Key:     ToStr(m["key"]),
        Summary: ToStr(fields["summary"]),
        Time:    TimeTracking(fields),
        Sprints:  SprintNames(fields, names),
        Boards:   BoardNames(fields, names),
        Projects: ProjectNames(fields, names),
    }
    if st, ok := fields["status"].(map[string]any); ok { out.Status = ToStr(st["name"]) }
    if tp, ok := fields["issuetype"].(map[string]any); ok { out.Type = ToStr(tp["name"]) }
    out.DueDate = ParseTime(fields["duedate"])
    out.UpdatedAt = ParseTime(fields["updated"])
    return out
}

// Names reads the key->label dictionary a search response carries when
// expand=names was requested.
func Names(page map[string]any) map[string]string {
    nm, _ := page["names"].(map[string]any)
    if nm == nil { return nil }
    out := make(map[string]string, len(nm))
    for k, v := range nm {
        if s, ok := v.(string); ok { out[k] = s }
    }
    return out
}
