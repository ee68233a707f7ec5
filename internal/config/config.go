/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package config

import (
    "errors"
    "os"
    "strconv"
    "strings"
    "time"
)

type Config struct {
    AppEnv   string
    TZ       string
    HTTPAddr string

    JiraBaseURL    string
    JiraPAT        string
    JiraUsername   string
    JiraPassword   string
    JiraAPIVersion string

    // TargetUsername/TargetAccountID select whose worklogs are reported.
    // Both empty means "whoever the credential belongs to" (myself lookup).
    TargetUsername  string
    TargetAccountID string

    PageSize     int
    WorkersFetch int
    WorkersMonth int
    HTTPTimeout  time.Duration

    HolidaysFile string

    TelegramToken   string
    TelegramChatIDs []int64
    NotifyCron      string
}

var ErrMissingJira = errors.New("config: jira base url or credential missing")

func getenv(key, def string) string {
    v := os.Getenv(key)
    if v == "" { return def }
    return v
}

func atoi(key string, def int) int {
    v := os.Getenv(key)
    if v == "" { return def }
    i, err := strconv.Atoi(v)
    if err != nil { return def }
    return i
}

func dur(key string, def time.Duration) time.Duration {
    v := os.Getenv(key)
    if v == "" { return def }
    d, err := time.ParseDuration(v)
    if err != nil { return def }
    return d
}

func parseInt64s(csv string) []int64 {
    if csv == "" { return nil }
    parts := strings.Split(csv, ",")
    out := make([]int64, 0, len(parts))
    for _, p := range parts {
        p = strings.TrimSpace(p)
        if p == "" { continue }
        n, err := strconv.ParseInt(p, 10, 64)
        if err == nil { out = append(out, n) }
    }
    return out
}

func Load() Config {
    return Config{
        AppEnv:   getenv("APP_ENV", "dev"),
        TZ:       getenv("APP_TZ", "Asia/Tehran"),
        HTTPAddr: getenv("HTTP_ADDR", ":8080"),

        JiraBaseURL:    getenv("JIRA_BASE_URL", ""),
        JiraPAT:        getenv("JIRA_PAT", ""),
        JiraUsername:   getenv("JIRA_USERNAME", ""),
        JiraPassword:   getenv("JIRA_PASSWORD", ""),
        JiraAPIVersion: getenv("JIRA_API_VERSION", "2"),

        TargetUsername:  getenv("TARGET_USERNAME", ""),
        TargetAccountID: getenv("TARGET_ACCOUNT_ID", ""),

        PageSize:     atoi("JIRA_PAGE_SIZE", 100),
        WorkersFetch: atoi("WORKERS_FETCH", 6),
        WorkersMonth: atoi("WORKERS_MONTH", 3),
        HTTPTimeout:  dur("HTTP_TIMEOUT", 15*time.Second),

        HolidaysFile: getenv("HOLIDAYS_FILE", ""),

        TelegramToken:   getenv("TELEGRAM_BOT_TOKEN", ""),
        TelegramChatIDs: parseInt64s(getenv("TELEGRAM_CHAT_IDS", "")),
        NotifyCron:      getenv("NOTIFY_CRON", "0 18 * * SAT,SUN,MON,TUE,WED"),
    }
}

// Validate fails before any fetch when the tracker cannot be reached at all.
func (c Config) Validate() error {
    if strings.TrimSpace(c.JiraBaseURL) == "" { return ErrMissingJira }
    if c.JiraPAT == "" && (c.JiraUsername == "" || c.JiraPassword == "") { return ErrMissingJira }
    return nil
}
