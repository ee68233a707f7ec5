/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package jalaali

// QuotaHours is the expected logged hours per workday.
const QuotaHours = 6.0

// DayColor classifies a day for display and deficit detection.
type DayColor string

const (
    ColorGray   DayColor = "gray"
    ColorRed    DayColor = "red"
    ColorYellow DayColor = "yellow"
    ColorGreen  DayColor = "green"
)

// Color maps a day's state to its classification. Green requires logged
// hours exactly equal to the quota; any other nonzero amount on a past
// workday is yellow, including overshoot.
func Color(isWorkday, isFuture bool, hours float64) DayColor {
    if !isWorkday || isFuture { return ColorGray }
    if hours == 0 { return ColorRed }
    if hours == QuotaHours { return ColorGreen }
    return ColorYellow
}
