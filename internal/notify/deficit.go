/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package notify

import (
    "context"
    "fmt"
    "strings"

    "github.com/mahdizarei0614/jalaali-jira-worklogs-sub000/internal/config"
    "github.com/mahdizarei0614/jalaali-jira-worklogs-sub000/internal/domain"
    "github.com/mahdizarei0614/jalaali-jira-worklogs-sub000/internal/jalaali"
    "github.com/mahdizarei0614/jalaali-jira-worklogs-sub000/internal/report"
    "github.com/rs/zerolog"
)

// Sender is the slice of the Telegram client the deficit digest needs.
type Sender interface {
    SendMarkdownV2(ctx context.Context, chatID int64, text string) error
}

// Deficit builds the current month's report and pushes the underperforming
// days to the configured chats.
type Deficit struct {
    cfg     config.Config
    log     zerolog.Logger
    builder *report.Builder
    tg      Sender
}

func NewDeficit(cfg config.Config, log zerolog.Logger, b *report.Builder, tg Sender) *Deficit {
    return &Deficit{cfg: cfg, log: log, builder: b, tg: tg}
}

// NotifyDeficit builds the current Jalaali month and sends the deficit
// message. Nothing is sent when every elapsed workday meets the quota.
func (d *Deficit) NotifyDeficit(ctx context.Context) error {
    user, err := d.builder.ResolveUser(ctx)
    if err != nil { return err }
    jy, jm := d.builder.CurrentMonth()
    rep, err := d.builder.Month(ctx, jy, jm, user, report.Options{})
    if err != nil { return err }
    if len(rep.DeficitDays) == 0 {
        d.log.Info().Int("year", jy).Int("month", jm).Msg("no deficit days, nothing to send")
        return nil
    }
    msg := ComposeDeficit(rep)
    for _, part := range chunkText(msg, 3800) {
        for _, chat := range d.cfg.TelegramChatIDs {
            if err := d.tg.SendMarkdownV2(ctx, chat, part); err != nil {
                d.log.Error().Err(err).Int64("chat", chat).Msg("telegram send failed")
                return err
            }
        }
    }
    return nil
}

// ComposeDeficit renders the deficit list as a MarkdownV2 message.
func ComposeDeficit(rep *domain.MonthReport) string {
    esc := escapeMarkdownV2
    b := &strings.Builder{}
    fmt.Fprintf(b, "*%s*\n", esc(report.MonthLabel(rep.Year, rep.Month)))
    fmt.Fprintf(b, "%s\n\n", esc(fmt.Sprintf("Logged %.2fh of %.2fh expected so far.", rep.TotalHours, rep.ExpectedByNow)))
    fmt.Fprintf(b, "%s\n", esc("Days under the 6h quota:"))
    for _, day := range rep.DeficitDays {
        fmt.Fprintf(b, "%s\n", esc(fmt.Sprintf("- %s (%s): %.2fh, missing %.2fh",
            day.Jalaali, day.Date, day.Hours, jalaali.QuotaHours-day.Hours)))
    }
    return b.String()
}

func escapeMarkdownV2(s string) string {
    repl := []string{"_","\\_","*","\\*","[","\\[","]","\\]","(","\\(",")","\\)","~","\\~","`","\\`",">","\\>","#","\\#","+","\\+","-","\\-","=","\\=","|","\\|","{","\\{","}","\\}",".","\\.","!","\\!"}
    for i := 0; i < len(repl); i += 2 { s = strings.ReplaceAll(s, repl[i], repl[i+1]) }
    return s
}

// chunkText splits text into chunks of up to max runes, attempting to break on line boundaries.
func chunkText(s string, max int) []string {
    if max <= 0 { return []string{s} }
    var chunks []string
    lines := strings.Split(s, "\n")
    cur := ""
    curlen := 0
    for _, ln := range lines {
        rl := len([]rune(ln))
        // If a single line exceeds max, hard-split the line
        if rl > max {
            if curlen > 0 { chunks = append(chunks, cur); cur = ""; curlen = 0 }
            r := []rune(ln)
            for i := 0; i < rl; i += max {
                j := i + max
                if j > rl { j = rl }
                chunks = append(chunks, string(r[i:j]))
            }
            continue
        }
        extra := rl
        if curlen > 0 { extra += 1 }
        if curlen+extra > max {
            chunks = append(chunks, cur)
            cur = ln
            curlen = rl
        } else {
            if curlen == 0 { cur = ln; curlen = rl } else { cur += "\n" + ln; curlen += extra }
        }
    }
    if curlen > 0 { chunks = append(chunks, cur) }
    if len(chunks) == 0 { chunks = []string{""} }
    return chunks
}
