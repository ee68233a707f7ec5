package notify

import (
    "strings"
    "testing"

    "github.com/mahdizarei0614/jalaali-jira-worklogs-sub000/internal/domain"
)

func TestComposeDeficit(t *testing.T) {
    rep := &domain.MonthReport{
        Year: 1404, Month: 7,
        TotalHours:    7.5,
        ExpectedByNow: 132,
        DeficitDays: []domain.DayBucket{
            {Jalaali: "1404-07-02", Date: "2025-09-24", Hours: 0},
            {Jalaali: "1404-07-30", Date: "2025-10-22", Hours: 1.5},
        },
    }
    msg := ComposeDeficit(rep)
    if !strings.Contains(msg, "Mehr 1404") { t.Fatalf("month label missing:\n%s", msg) }
    if !strings.Contains(msg, "7\\.50h") || !strings.Contains(msg, "132\\.00h") {
        t.Fatalf("totals missing or unescaped:\n%s", msg)
    }
    if !strings.Contains(msg, "1404\\-07\\-30") { t.Fatalf("day line missing:\n%s", msg) }
    if !strings.Contains(msg, "missing 4\\.50h") { t.Fatalf("shortfall missing:\n%s", msg) }
    if strings.Contains(msg, "missing 6.00h") {
        t.Fatal("dots must be escaped for MarkdownV2")
    }
}

func TestEscapeMarkdownV2(t *testing.T) {
    got := escapeMarkdownV2("a-b.c (d)!")
    if got != "a\\-b\\.c \\(d\\)\\!" { t.Fatalf("got %q", got) }
}

func TestChunkText(t *testing.T) {
    s := strings.Join([]string{"aaa", "bbb", "ccc"}, "\n")
    chunks := chunkText(s, 7)
    if len(chunks) != 2 { t.Fatalf("chunks = %v", chunks) }
    if chunks[0] != "aaa\nbbb" || chunks[1] != "ccc" { t.Fatalf("chunks = %v", chunks) }

    if got := chunkText("short", 100); len(got) != 1 || got[0] != "short" {
        t.Fatalf("got %v", got)
    }

    long := strings.Repeat("x", 10)
    got := chunkText(long, 4)
    if len(got) != 3 || got[0] != "xxxx" || got[2] != "xx" {
        t.Fatalf("hard split = %v", got)
    }
}
