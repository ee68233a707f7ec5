/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */

// Package jalaali converts between the Jalaali (Persian) calendar and the
// Gregorian calendar and classifies days for the compliance report. All day
// boundaries are computed at the fixed +03:30 offset, never machine-local
// time, so the same record lands in the same bucket on every run.
package jalaali

import (
    "errors"
    "fmt"
    "time"
)

// Zone is the fixed +03:30 offset used for every day-boundary computation.
var Zone = time.FixedZone("+0330", 3*3600+30*60)

// breaks lists the years of the Jalaali leap-cycle changes (Birashk).
var breaks = []int{-61, 9, 38, 199, 426, 686, 756, 818, 1111, 1181, 1210,
    1635, 2060, 2097, 2192, 2262, 2324, 2394, 2456, 3178}

var ErrInvalidDate = errors.New("jalaali: invalid date")

// jalCal computes the leap status of jy, the Gregorian year of its first day
// and the March day number that first day falls on.
func jalCal(jy int) (leap, gy, march int, err error) {
    if jy < breaks[0] || jy >= breaks[len(breaks)-1] {
        return 0, 0, 0, fmt.Errorf("%w: year %d out of supported range", ErrInvalidDate, jy)
    }
    gy = jy + 621
    leapJ := -14
    jp := breaks[0]
    jump := 0
    for i := 1; i < len(breaks); i++ {
        jm := breaks[i]
        jump = jm - jp
        if jy < jm { break }
        leapJ += jump/33*8 + jump%33/4
        jp = jm
    }
    n := jy - jp
    leapJ += n/33*8 + (n%33+3)/4
    if jump%33 == 4 && jump-n == 4 { leapJ++ }
    leapG := gy/4 - (gy/100+1)*3/4 - 150
    march = 20 + leapJ - leapG
    if jump-n < 6 { n = n - jump + (jump+4)/33*33 }
    leap = ((n+1)%33 - 1) % 4
    if leap == -1 { leap = 4 }
    return leap, gy, march, nil
}

// IsLeapYear reports whether the Jalaali year jy has 366 days.
func IsLeapYear(jy int) bool {
    leap, _, _, err := jalCal(jy)
    return err == nil && leap == 0
}

// MonthLength returns the number of days in the given Jalaali month, or 0 if
// the year/month pair is invalid.
func MonthLength(jy, jm int) int {
    if jm < 1 || jm > 12 { return 0 }
    if _, _, _, err := jalCal(jy); err != nil { return 0 }
    if jm <= 6 { return 31 }
    if jm <= 11 { return 30 }
    if IsLeapYear(jy) { return 30 }
    return 29
}

// g2d converts a Gregorian date to its Julian day number.
func g2d(gy, gm, gd int) int {
    d := (gy+(gm-8)/6+100100)*1461/4 + (153*((gm+9)%12)+2)/5 + gd - 34840408
    return d - (gy+100100+(gm-8)/6)/100*3/4 + 752
}

// d2g converts a Julian day number to a Gregorian date.
func d2g(jdn int) (gy, gm, gd int) {
    j := 4*jdn + 139361631
    j = j + (4*jdn+183187720)/146097*3/4*4 - 3908
    i := j%1461/4*5 + 308
    gd = i%153/5 + 1
    gm = i/153%12 + 1
    gy = j/1461 - 100100 + (8-gm)/6
    return
}

// j2d converts a Jalaali date to its Julian day number.
func j2d(jy, jm, jd int) (int, error) {
    _, gy, march, err := jalCal(jy)
    if err != nil { return 0, err }
    return g2d(gy, 3, march) + (jm-1)*31 - jm/7*(jm-7) + jd - 1, nil
}

// d2j converts a Julian day number to a Jalaali date.
func d2j(jdn int) (jy, jm, jd int) {
    gy, _, _ := d2g(jdn)
    jy = gy - 621
    _, _, march, err := jalCal(jy)
    if err != nil { return 0, 0, 0 }
    k := jdn - g2d(gy, 3, march)
    if k >= 0 {
        if k <= 185 {
            jm = 1 + k/31
            jd = k%31 + 1
            return
        }
        k -= 186
    } else {
        jy--
        k += 179
        if IsLeapYear(jy) { k++ }
    }
    jm = 7 + k/30
    jd = k%30 + 1
    return
}

// ToJalaali converts a point in time to the Jalaali date of the +03:30 day
// it falls in.
func ToJalaali(t time.Time) (jy, jm, jd int) {
    lt := t.In(Zone)
    return d2j(g2d(lt.Year(), int(lt.Month()), lt.Day()))
}

// ToGregorian returns the start of the given Jalaali day in the +03:30 zone.
func ToGregorian(jy, jm, jd int) (time.Time, error) {
    if jm < 1 || jm > 12 || jd < 1 || jd > MonthLength(jy, jm) {
        return time.Time{}, fmt.Errorf("%w: %d-%02d-%02d", ErrInvalidDate, jy, jm, jd)
    }
    jdn, err := j2d(jy, jm, jd)
    if err != nil { return time.Time{}, err }
    gy, gm, gd := d2g(jdn)
    return time.Date(gy, time.Month(gm), gd, 0, 0, 0, 0, Zone), nil
}

// MonthRange returns the Gregorian start of the first day and end (23:59:59)
// of the last day of a Jalaali month.
func MonthRange(jy, jm int) (start, end time.Time, err error) {
    n := MonthLength(jy, jm)
    if n == 0 {
        return time.Time{}, time.Time{}, fmt.Errorf("%w: month %d-%02d", ErrInvalidDate, jy, jm)
    }
    start, err = ToGregorian(jy, jm, 1)
    if err != nil { return time.Time{}, time.Time{}, err }
    last, err := ToGregorian(jy, jm, n)
    if err != nil { return time.Time{}, time.Time{}, err }
    end = last.Add(24*time.Hour - time.Second)
    return start, end, nil
}

// WeekdayIndex returns the Jalaali weekday of t: Saturday=0 .. Friday=6.
func WeekdayIndex(t time.Time) int {
    return (int(t.In(Zone).Weekday()) + 1) % 7
}

// IsWeekend reports whether t falls on the fixed Thursday/Friday weekend
// pair. The pair does not vary by region.
func IsWeekend(t time.Time) bool {
    wd := t.In(Zone).Weekday()
    return wd == time.Thursday || wd == time.Friday
}
