// Package clock は時刻源と、スナップショット/バックアップ名の組み立てを提供します。
package clock

import (
	"path"
	"time"
)

// Clock abstracts time source for testability.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Fixed always returns the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }

var current Clock = systemClock{}

// Now returns the current time of the installed clock.
func Now() time.Time { return current.Now() }

// Set installs c and returns a function restoring the previous clock.
func Set(c Clock) (restore func()) {
	prev := current
	current = c
	return func() { current = prev }
}

const (
	stampLayout     = "20060102-150405"
	backupDayLayout = "2006-01-02"
	backupLayout    = "150405"
)

// SnapshotFile returns "<prefix>-<yyyymmdd-HHMMSS>.sqlite" in UTC.
// withMillis appends milliseconds for callers that may snapshot more than
// once per second.
func SnapshotFile(prefix string, withMillis bool) string {
	layout := stampLayout
	if withMillis {
		layout += ".000"
	}
	return prefix + "-" + Now().UTC().Format(layout) + ".sqlite"
}

// TempObject returns the staging name used during a two-phase upload.
func TempObject(object string) string {
	return object + ".tmp-" + Now().UTC().Format(stampLayout)
}

// BackupObject returns backups/yyyy-mm-dd/HHMMSS-<base of object>.
func BackupObject(object string) string {
	now := Now().UTC()
	return path.Join("backups", now.Format(backupDayLayout), now.Format(backupLayout)+"-"+path.Base(object))
}
