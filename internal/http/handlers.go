/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
    "context"
    "net/http"
    "strconv"

    "github.com/gin-gonic/gin"
    "github.com/mahdizarei0614/jalaali-jira-worklogs-sub000/internal/config"
    "github.com/mahdizarei0614/jalaali-jira-worklogs-sub000/internal/domain"
    "github.com/mahdizarei0614/jalaali-jira-worklogs-sub000/internal/report"
    "github.com/rs/zerolog"
)

type reporter interface {
    ResolveUser(ctx context.Context) (domain.User, error)
    Month(ctx context.Context, jy, jm int, user domain.User, opt report.Options) (*domain.MonthReport, error)
    Quarter(ctx context.Context, jy int, user domain.User, cache *report.MonthCache) (*domain.QuarterReport, error)
    CurrentMonth() (int, int)
}

type notifier interface {
    NotifyDeficit(ctx context.Context) error
}

type Handlers struct {
    cfg config.Config
    log zerolog.Logger
    rep reporter
    nt  notifier
}

func NewHandlers(cfg config.Config, log zerolog.Logger, rep reporter, nt notifier) *Handlers {
    return &Handlers{cfg: cfg, log: log, rep: rep, nt: nt}
}

func (h *Handlers) Healthz(c *gin.Context) {
    c.JSON(http.StatusOK, gin.H{"ok": true})
}

func intQuery(c *gin.Context, name string, def int) int {
    v := c.Query(name)
    if v == "" { return def }
    n, err := strconv.Atoi(v)
    if err != nil { return def }
    return n
}

// MonthReport serves GET /report/month?year=&month=&detail=.
// Year/month default to the current Jalaali month.
func (h *Handlers) MonthReport(c *gin.Context) {
    ctx := c.Request.Context()
    curY, curM := h.rep.CurrentMonth()
    jy := intQuery(c, "year", curY)
    jm := intQuery(c, "month", curM)
    detail := c.Query("detail") == "1" || c.Query("detail") == "true"
    user, err := h.rep.ResolveUser(ctx)
    if err != nil {
        c.JSON(http.StatusBadGateway, report.Failure(err))
        return
    }
    rep, err := h.rep.Month(ctx, jy, jm, user, report.Options{Detail: detail})
    if err != nil {
        c.JSON(http.StatusUnprocessableEntity, report.Failure(err))
        return
    }
    c.JSON(http.StatusOK, report.Success(rep))
}

// QuarterReport serves GET /report/quarter?year=.
func (h *Handlers) QuarterReport(c *gin.Context) {
    ctx := c.Request.Context()
    curY, _ := h.rep.CurrentMonth()
    jy := intQuery(c, "year", curY)
    user, err := h.rep.ResolveUser(ctx)
    if err != nil {
        c.JSON(http.StatusBadGateway, report.Failure(err))
        return
    }
    rep, err := h.rep.Quarter(ctx, jy, user, nil)
    if err != nil {
        c.JSON(http.StatusUnprocessableEntity, report.Failure(err))
        return
    }
    c.JSON(http.StatusOK, report.Success(rep))
}

// NotifyDeficit triggers the deficit digest out of band of the cron schedule.
func (h *Handlers) NotifyDeficit(c *gin.Context) {
    // detach from the request so a slow build is not cancelled mid-send
    go func() {
        if err := h.nt.NotifyDeficit(context.Background()); err != nil {
            h.log.Error().Err(err).Msg("deficit notify failed")
        }
    }()
    c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}
