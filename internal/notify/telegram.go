/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */

// Package notify delivers the deficit digest to Telegram. The report core
// only exposes the deficit list; everything message-shaped lives here.
package notify

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "time"

    "github.com/mahdizarei0614/jalaali-jira-worklogs-sub000/internal/config"
    "github.com/rs/zerolog"
)

type Telegram struct {
    token string
    http  *http.Client
    log   zerolog.Logger
}

func NewTelegram(cfg config.Config, log zerolog.Logger) *Telegram {
    return &Telegram{ token: cfg.TelegramToken, http: &http.Client{ Timeout: 10 * time.Second }, log: log }
}

func (c *Telegram) send(ctx context.Context, payload map[string]any) error {
    url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", c.token)
    b, _ := json.Marshal(payload)
    req, _ := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(b))
    req.Header.Set("Content-Type", "application/json")
    resp, err := c.http.Do(req)
    if err != nil { return err }
    defer resp.Body.Close()
    if resp.StatusCode >= 300 {
        var bodyBytes []byte
        bodyBytes, _ = io.ReadAll(resp.Body)
        return fmt.Errorf("telegram sendMessage status=%d body=%s", resp.StatusCode, string(bodyBytes))
    }
    return nil
}

// SendMessagePlain sends without parse_mode to avoid markdown parsing errors
func (c *Telegram) SendMessagePlain(ctx context.Context, chatID int64, text string) error {
    if c.token == "" || chatID == 0 { return fmt.Errorf("telegram: missing token or chat id") }
    return c.send(ctx, map[string]any{"chat_id": chatID, "text": text, "disable_web_page_preview": true})
}

// SendMarkdownV2 sends a message using MarkdownV2 parse mode.
func (c *Telegram) SendMarkdownV2(ctx context.Context, chatID int64, text string) error {
    if c.token == "" || chatID == 0 { return fmt.Errorf("telegram: missing token or chat id") }
    return c.send(ctx, map[string]any{"chat_id": chatID, "text": text, "parse_mode": "MarkdownV2", "disable_web_page_preview": true})
}
