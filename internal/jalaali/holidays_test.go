package jalaali

import (
    "os"
    "path/filepath"
    "testing"
)

func TestLoadHolidays_EmbeddedDefault(t *testing.T) {
    table, err := LoadHolidays("")
    if err != nil { t.Fatalf("load embedded: %v", err) }
    if table.Len() == 0 { t.Fatal("embedded table is empty") }
    if !table.IsHoliday(1404, 1, 1) { t.Fatal("Nowruz 1404 missing") }
    if !table.IsHoliday(1404, 11, 22) { t.Fatal("1404-11-22 missing") }
    if table.IsHoliday(1404, 7, 5) { t.Fatal("1404-07-05 is not a holiday") }
    if table.Name(1404, 1, 13) != "Nature Day" {
        t.Fatalf("1404-01-13 name = %q", table.Name(1404, 1, 13))
    }
}

func TestLoadHolidays_FileOverride(t *testing.T) {
    dir := t.TempDir()
    path := filepath.Join(dir, "holidays.toml")
    data := `
[[holiday]]
year = 1410
month = 2
day = 7
name = "Made Up Day"

[[holiday]]
year = 1410
month = 99
day = 1
name = "invalid, must be skipped"
`
    if err := os.WriteFile(path, []byte(data), 0o644); err != nil { t.Fatal(err) }
    table, err := LoadHolidays(path)
    if err != nil { t.Fatalf("load file: %v", err) }
    if table.Len() != 1 { t.Fatalf("Len = %d, want 1", table.Len()) }
    if !table.IsHoliday(1410, 2, 7) { t.Fatal("1410-02-07 missing") }
    if table.IsHoliday(1404, 1, 1) { t.Fatal("override must replace the default table") }
}

func TestLoadHolidays_BadFile(t *testing.T) {
    if _, err := LoadHolidays(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
        t.Fatal("missing file should fail")
    }
}
