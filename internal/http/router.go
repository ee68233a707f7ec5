/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
    "github.com/gin-gonic/gin"
    "github.com/mahdizarei0614/jalaali-jira-worklogs-sub000/internal/config"
    "github.com/rs/zerolog"
)

func NewRouter(cfg config.Config, log zerolog.Logger, rep reporter, nt notifier) *gin.Engine {
    if cfg.AppEnv != "dev" { gin.SetMode(gin.ReleaseMode) }
    r := gin.New()
    r.Use(gin.Recovery())
    r.Use(func(c *gin.Context){
        c.Next()
        log.Info().Str("m", c.Request.Method).Str("p", c.FullPath()).Int("s", c.Writer.Status()).Msg("http")
    })

    h := NewHandlers(cfg, log, rep, nt)

    r.GET("/healthz", h.Healthz)
    r.GET("/report/month", h.MonthReport)
    r.GET("/report/quarter", h.QuarterReport)
    r.POST("/notify/deficit", h.NotifyDeficit)

    return r
}
