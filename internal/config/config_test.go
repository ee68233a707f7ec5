package config

import (
    "testing"
    "time"
)

func TestLoad_Defaults(t *testing.T) {
    cfg := Load()
    if cfg.JiraAPIVersion != "2" { t.Fatalf("api version = %q", cfg.JiraAPIVersion) }
    if cfg.PageSize != 100 || cfg.WorkersFetch != 6 || cfg.WorkersMonth != 3 {
        t.Fatalf("pool defaults: %+v", cfg)
    }
    if cfg.HTTPTimeout != 15*time.Second { t.Fatalf("timeout = %v", cfg.HTTPTimeout) }
}

func TestLoad_Env(t *testing.T) {
    t.Setenv("JIRA_PAGE_SIZE", "50")
    t.Setenv("WORKERS_FETCH", "not a number")
    t.Setenv("TELEGRAM_CHAT_IDS", "123, 456,,x,789")
    cfg := Load()
    if cfg.PageSize != 50 { t.Fatalf("page size = %d", cfg.PageSize) }
    if cfg.WorkersFetch != 6 { t.Fatal("garbage int must fall back to the default") }
    ids := cfg.TelegramChatIDs
    if len(ids) != 3 || ids[0] != 123 || ids[1] != 456 || ids[2] != 789 {
        t.Fatalf("chat ids = %v", ids)
    }
}

func TestValidate(t *testing.T) {
    if err := (Config{}).Validate(); err != ErrMissingJira {
        t.Fatalf("empty config: %v", err)
    }
    if err := (Config{JiraBaseURL: "https://jira.local"}).Validate(); err != ErrMissingJira {
        t.Fatal("credential required")
    }
    if err := (Config{JiraBaseURL: "https://jira.local", JiraPAT: "tok"}).Validate(); err != nil {
        t.Fatalf("pat auth: %v", err)
    }
    if err := (Config{JiraBaseURL: "https://jira.local", JiraUsername: "u", JiraPassword: "p"}).Validate(); err != nil {
        t.Fatalf("basic auth: %v", err)
    }
    if err := (Config{JiraBaseURL: "https://jira.local", JiraUsername: "u"}).Validate(); err != ErrMissingJira {
        t.Fatal("username without password must fail")
    }
}
