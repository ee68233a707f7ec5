/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package main

import (
    "context"
    "encoding/json"
    "fmt"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/rs/zerolog"
    "github.com/spf13/cobra"

    "github.com/mahdizarei0614/jalaali-jira-worklogs-sub000/internal/adapters/jira"
    "github.com/mahdizarei0614/jalaali-jira-worklogs-sub000/internal/config"
    "github.com/mahdizarei0614/jalaali-jira-worklogs-sub000/internal/fetch"
    httpx "github.com/mahdizarei0614/jalaali-jira-worklogs-sub000/internal/http"
    "github.com/mahdizarei0614/jalaali-jira-worklogs-sub000/internal/jalaali"
    "github.com/mahdizarei0614/jalaali-jira-worklogs-sub000/internal/jobs"
    "github.com/mahdizarei0614/jalaali-jira-worklogs-sub000/internal/logger"
    "github.com/mahdizarei0614/jalaali-jira-worklogs-sub000/internal/notify"
    "github.com/mahdizarei0614/jalaali-jira-worklogs-sub000/internal/report"
)

type app struct {
    cfg     config.Config
    log     zerolog.Logger
    builder *report.Builder
    deficit *notify.Deficit
}

func buildApp() (*app, error) {
    cfg := config.Load()
    log := logger.New(cfg)
    if err := cfg.Validate(); err != nil { return nil, err }
    holidays, err := jalaali.LoadHolidays(cfg.HolidaysFile)
    if err != nil { return nil, fmt.Errorf("holiday table: %w", err) }
    jc := jira.NewClient(cfg, log)
    f := fetch.New(jc, log, cfg.PageSize, cfg.WorkersFetch)
    b := report.NewBuilder(cfg, log, f, jc, holidays)
    tg := notify.NewTelegram(cfg, log)
    d := notify.NewDeficit(cfg, log, b, tg)
    return &app{cfg: cfg, log: log, builder: b, deficit: d}, nil
}

func printResult(r report.Result) {
    b, _ := json.MarshalIndent(r, "", "  ")
    fmt.Println(string(b))
    if !r.OK { os.Exit(1) }
}

var rootCmd = &cobra.Command{
    Use:   "worklogs",
    Short: "Jalaali-calendar Jira worklog compliance reports",
    Long:  `Aggregates Jira worklogs per Jalaali calendar day and reports monthly and quarterly hours against the 6h/workday quota.`,
}

var monthCmd = &cobra.Command{
    Use:   "month",
    Short: "Build one Jalaali month's report and print it as JSON",
    Run: func(cmd *cobra.Command, args []string) {
        a, err := buildApp()
        if err != nil { printResult(report.Failure(err)); return }
        ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
        defer cancel()
        curY, curM := a.builder.CurrentMonth()
        year, _ := cmd.Flags().GetInt("year")
        month, _ := cmd.Flags().GetInt("month")
        detail, _ := cmd.Flags().GetBool("detail")
        if year == 0 { year = curY }
        if month == 0 { month = curM }
        user, err := a.builder.ResolveUser(ctx)
        if err != nil { printResult(report.Failure(err)); return }
        rep, err := a.builder.Month(ctx, year, month, user, report.Options{Detail: detail})
        if err != nil { printResult(report.Failure(err)); return }
        printResult(report.Success(rep))
    },
}

var quarterCmd = &cobra.Command{
    Use:   "quarter",
    Short: "Build a Jalaali year's four-season report and print it as JSON",
    Run: func(cmd *cobra.Command, args []string) {
        a, err := buildApp()
        if err != nil { printResult(report.Failure(err)); return }
        ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
        defer cancel()
        curY, _ := a.builder.CurrentMonth()
        year, _ := cmd.Flags().GetInt("year")
        if year == 0 { year = curY }
        user, err := a.builder.ResolveUser(ctx)
        if err != nil { printResult(report.Failure(err)); return }
        rep, err := a.builder.Quarter(ctx, year, user, nil)
        if err != nil { printResult(report.Failure(err)); return }
        printResult(report.Success(rep))
    },
}

var serveCmd = &cobra.Command{
    Use:   "serve",
    Short: "Serve the report API and the scheduled deficit digest",
    Run: func(cmd *cobra.Command, args []string) {
        a, err := buildApp()
        if err != nil {
            fmt.Fprintf(os.Stderr, "Error: %v\n", err)
            os.Exit(1)
        }

        router := httpx.NewRouter(a.cfg, a.log, a.builder, a.deficit)

        cron := jobs.NewCron(a.cfg, a.log, a.deficit)
        cron.Start()
        defer cron.Stop()

        errCh := make(chan error, 1)
        go func() { errCh <- router.Run(a.cfg.HTTPAddr) }()

        sigCh := make(chan os.Signal, 1)
        signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

        select {
        case <-sigCh:
            a.log.Info().Msg("shutting down...")
        case err := <-errCh:
            if err != nil { a.log.Error().Err(err).Msg("http server error") }
        }

        time.Sleep(500 * time.Millisecond)
    },
}

func init() {
    monthCmd.Flags().Int("year", 0, "Jalaali year (default: current)")
    monthCmd.Flags().Int("month", 0, "Jalaali month 1-12 (default: current)")
    monthCmd.Flags().Bool("detail", false, "Include worklog lines and issue sections")

    quarterCmd.Flags().Int("year", 0, "Jalaali year (default: current)")

    rootCmd.AddCommand(monthCmd)
    rootCmd.AddCommand(quarterCmd)
    rootCmd.AddCommand(serveCmd)
}

func main() {
    if err := rootCmd.Execute(); err != nil {
        fmt.Fprintln(os.Stderr, err)
        os.Exit(1)
    }
}
