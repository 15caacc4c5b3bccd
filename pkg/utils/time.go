package utils

import (
	"log"
	"os"
	"time"
)

var (
	TrackerLocation *time.Location
)

func init() {
	name := os.Getenv("TRACKER_TZ")
	if name == "" {
		name = "UTC"
	}

	var err error
	TrackerLocation, err = time.LoadLocation(name)
	if err != nil {
		log.Printf("Ошибка загрузки таймзоны %s: %v", name, err)
		TrackerLocation = time.UTC
	}
}

func NowTracker() time.Time {
	return time.Now().In(TrackerLocation)
}

func ToTracker(t time.Time) time.Time {
	return t.In(TrackerLocation)
}

func FormatTracker(t time.Time, layout string) string {
	return t.In(TrackerLocation).Format(layout)
}

func FormatTrackerDate(t time.Time) string {
	return FormatTracker(t, "2006-01-02")
}

func ParseTracker(layout, value string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, value, TrackerLocation)
	return t, err
}
