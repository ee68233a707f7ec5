package domain

import "time"

// User identifies the person whose worklogs are being reported. Jira Server
// keys users by name, Jira Cloud by accountId; both are kept and a worklog
// author may match on either.
type User struct {
    Name        string `json:"name,omitempty"`
    AccountID   string `json:"account_id,omitempty"`
    DisplayName string `json:"display_name,omitempty"`
    Email       string `json:"email,omitempty"`
}

// WorkRecord is one logged-time entry after normalization. Key deduplicates
// records across overlapping fetches: the tracker's worklog id when present,
// otherwise a fingerprint of issue key, author, start time and duration.
// The fingerprint can collide for byte-identical records; that risk is
// accepted rather than changing dedup semantics.
type WorkRecord struct {
    Key       string
    IssueKey  string
    Author    string
    AuthorKey string
    StartedAt time.Time
    Seconds   int
    Comment   string
}

// TimeTracking holds reconciled estimate figures in seconds.
type TimeTracking struct {
    OriginalSeconds  int `json:"original_seconds"`
    SpentSeconds     int `json:"spent_seconds"`
    RemainingSeconds int `json:"remaining_seconds"`
}

type Issue struct {
    Key       string       `json:"key"`
    Summary   string       `json:"summary"`
    Status    string       `json:"status"`
    Type      string       `json:"type"`
    DueDate   *time.Time   `json:"due_date,omitempty"`
    UpdatedAt *time.Time   `json:"updated_at,omitempty"`
    Time      TimeTracking `json:"time"`
    Sprints   []string     `json:"sprints,omitempty"`
    Boards    []string     `json:"boards,omitempty"`
    Projects  []string     `json:"projects,omitempty"`
}

// DayBucket is one calendar day of a month report.
type DayBucket struct {
    Date    string  `json:"date"`    // Gregorian key, YYYY-MM-DD at +03:30
    Jalaali string  `json:"jalaali"` // e.g. 1404-07-01
    JYear   int     `json:"jalaali_year"`
    JMonth  int     `json:"jalaali_month"`
    JDay    int     `json:"jalaali_day"`
    Weekday int     `json:"weekday"` // Saturday=0 .. Friday=6
    Weekend bool    `json:"weekend"`
    Holiday bool    `json:"holiday"`
    Future  bool    `json:"future"`
    Workday bool    `json:"workday"`
    Hours   float64 `json:"hours"`
    Color   string  `json:"color"`
}

// WorklogItem is one detail line of a month report, carrying both calendar
// representations of its date.
type WorklogItem struct {
    IssueKey  string    `json:"issue_key"`
    Date      string    `json:"date"`
    Jalaali   string    `json:"jalaali"`
    StartedAt time.Time `json:"started_at"`
    Hours     float64   `json:"hours"`
    Comment   string    `json:"comment,omitempty"`
}

// IssueSection is an optional report section with its own failure boundary:
// a tracker-side error degrades it to OK=false instead of failing the month.
type IssueSection struct {
    OK     bool    `json:"ok"`
    Error  string  `json:"error,omitempty"`
    Issues []Issue `json:"issues"`
}

type MonthReport struct {
    Year          int           `json:"year"`
    Month         int           `json:"month"`
    Days          []DayBucket   `json:"days"`
    TotalHours    float64       `json:"total_hours"`
    ExpectedByNow float64       `json:"expected_by_now"`
    ExpectedByEnd float64       `json:"expected_by_end"`
    DeficitDays   []DayBucket   `json:"deficit_days"`
    Worklogs      []WorklogItem `json:"worklogs,omitempty"`
    DueIssues     *IssueSection `json:"due_issues,omitempty"`
    Assigned      *IssueSection `json:"assigned_issues,omitempty"`
}

// MonthTotal is the per-month rollup inside a season group.
type MonthTotal struct {
    Year          int     `json:"year"`
    Month         int     `json:"month"`
    TotalHours    float64 `json:"total_hours"`
    ExpectedByEnd float64 `json:"expected_by_end"`
}

type SeasonReport struct {
    Index      int          `json:"index"` // 0..3, season 0 covers months 1-3
    Months     []MonthTotal `json:"months"`
    TotalHours float64      `json:"total_hours"`
}

type QuarterReport struct {
    Year       int            `json:"year"`
    Seasons    []SeasonReport `json:"seasons"`
    TotalHours float64        `json:"total_hours"`
}
