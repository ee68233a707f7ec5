/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package jalaali

import (
    _ "embed"

    "github.com/BurntSushi/toml"
)

//go:embed holidays.toml
var defaultHolidays []byte

// HolidayTable is an exact-match set of Jalaali dates. The table is data,
// not logic: it ships as a TOML file next to the binary (or the embedded
// default) and can be replaced without touching this package.
type HolidayTable struct {
    days map[[3]int]string
}

type holidayEntry struct {
    Year  int    `toml:"year"`
    Month int    `toml:"month"`
    Day   int    `toml:"day"`
    Name  string `toml:"name"`
}

type holidayFile struct {
    Holidays []holidayEntry `toml:"holiday"`
}

// LoadHolidays parses a TOML holiday table from path. An empty path loads
// the embedded default table.
func LoadHolidays(path string) (HolidayTable, error) {
    var hf holidayFile
    var err error
    if path == "" {
        err = toml.Unmarshal(defaultHolidays, &hf)
    } else {
        _, err = toml.DecodeFile(path, &hf)
    }
    if err != nil { return HolidayTable{}, err }
    t := HolidayTable{days: make(map[[3]int]string, len(hf.Holidays))}
    for _, h := range hf.Holidays {
        if h.Month < 1 || h.Month > 12 || h.Day < 1 || h.Day > 31 { continue }
        t.days[[3]int{h.Year, h.Month, h.Day}] = h.Name
    }
    return t, nil
}

// IsHoliday reports whether the exact Jalaali date is in the table.
func (t HolidayTable) IsHoliday(jy, jm, jd int) bool {
    _, ok := t.days[[3]int{jy, jm, jd}]
    return ok
}

// Name returns the holiday name for a date, or "" when it is not listed.
func (t HolidayTable) Name(jy, jm, jd int) string {
    return t.days[[3]int{jy, jm, jd}]
}

// Len returns the number of listed holidays.
func (t HolidayTable) Len() int { return len(t.days) }
