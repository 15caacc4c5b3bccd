package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinerozz/focus-tracker-backend/internal/entity"
	"github.com/dinerozz/focus-tracker-backend/internal/service/category"
)

func testSnapshot() *category.Snapshot {
	return category.NewSnapshot(entity.Categories{
		Productive:   []string{"github.com", "stackoverflow.com"},
		Unproductive: []string{"youtube.com"},
	})
}

func entryOn(domain, date string, startedAt time.Time, ms int64) entity.TimeEntry {
	return entity.TimeEntry{
		Domain:    domain,
		TimeSpent: ms,
		StartedAt: startedAt,
		Date:      date,
	}
}

func TestBuildReportSummaryAndScore(t *testing.T) {
	day := time.Date(2025, 5, 12, 10, 0, 0, 0, time.UTC)

	entries := []entity.TimeEntry{
		entryOn("github.com", "2025-05-12", day, 60_000),
		entryOn("stackoverflow.com", "2025-05-12", day.Add(time.Hour), 60_000),
		entryOn("youtube.com", "2025-05-12", day.Add(2*time.Hour), 60_000),
	}

	report := BuildReport(entries, testSnapshot(), "7d")

	assert.Equal(t, int64(180_000), report.Summary.TotalTime)
	assert.Equal(t, int64(120_000), report.Summary.ProductiveTime)
	assert.Equal(t, int64(60_000), report.Summary.UnproductiveTime)
	assert.Equal(t, int64(0), report.Summary.NeutralTime)

	// 120000 / 180000 = 66.67% -> 67
	assert.Equal(t, 67, report.Summary.ProductivityScore)
	assert.Equal(t, 3, report.Summary.TotalDomains)
	assert.Equal(t, int64(180_000), report.Summary.AverageDailyTime)
	assert.Equal(t, "7d", report.Summary.Period)
}

func TestBuildReportEmptyInput(t *testing.T) {
	report := BuildReport(nil, testSnapshot(), "1d")

	assert.Equal(t, 0, report.Summary.ProductivityScore)
	assert.Equal(t, int64(0), report.Summary.AverageDailyTime)
	assert.Empty(t, report.DailyBreakdown)
	assert.Empty(t, report.TopDomains)
	assert.Len(t, report.HourlyBreakdown, 24)
	assert.Equal(t, entity.CategoryShares{}, report.CategoryBreakdown)
}

func TestBuildReportDailyBreakdownSortedWithPerDayScores(t *testing.T) {
	entries := []entity.TimeEntry{
		entryOn("youtube.com", "2025-05-13", time.Date(2025, 5, 13, 9, 0, 0, 0, time.UTC), 30_000),
		entryOn("github.com", "2025-05-11", time.Date(2025, 5, 11, 9, 0, 0, 0, time.UTC), 40_000),
		entryOn("example.com", "2025-05-11", time.Date(2025, 5, 11, 10, 0, 0, 0, time.UTC), 40_000),
	}

	report := BuildReport(entries, testSnapshot(), "7d")

	require.Len(t, report.DailyBreakdown, 2)
	assert.Equal(t, "2025-05-11", report.DailyBreakdown[0].Date)
	assert.Equal(t, "2025-05-13", report.DailyBreakdown[1].Date)

	assert.Equal(t, 50, report.DailyBreakdown[0].ProductivityScore)
	assert.Equal(t, 2, report.DailyBreakdown[0].UniqueDomains)
	assert.Equal(t, 0, report.DailyBreakdown[1].ProductivityScore)
}

func TestBuildReportTopDomainsCappedAndOrdered(t *testing.T) {
	day := time.Date(2025, 5, 12, 12, 0, 0, 0, time.UTC)

	var entries []entity.TimeEntry
	for i := 0; i < 25; i++ {
		domain := fmt.Sprintf("site-%02d.com", i)
		entries = append(entries, entryOn(domain, "2025-05-12", day, int64(1000*(i+1))))
	}

	report := BuildReport(entries, testSnapshot(), "30d")

	require.Len(t, report.TopDomains, 20)
	assert.Equal(t, "site-24.com", report.TopDomains[0].Domain)
	assert.Equal(t, int64(25_000), report.TopDomains[0].TotalTime)

	for i := 1; i < len(report.TopDomains); i++ {
		assert.GreaterOrEqual(t, report.TopDomains[i-1].TotalTime, report.TopDomains[i].TotalTime)
	}
}

func TestBuildReportAverageSession(t *testing.T) {
	day := time.Date(2025, 5, 12, 12, 0, 0, 0, time.UTC)

	entries := []entity.TimeEntry{
		entryOn("github.com", "2025-05-12", day, 10_000),
		entryOn("github.com", "2025-05-12", day.Add(time.Hour), 20_000),
	}

	report := BuildReport(entries, testSnapshot(), "1d")

	require.Len(t, report.TopDomains, 1)
	assert.Equal(t, 2, report.TopDomains[0].Visits)
	assert.Equal(t, int64(15_000), report.TopDomains[0].AverageSession)
	assert.Equal(t, entity.CategoryProductive, report.TopDomains[0].Category)
}

func TestBuildReportHourlyBuckets(t *testing.T) {
	entries := []entity.TimeEntry{
		entryOn("github.com", "2025-05-12", time.Date(2025, 5, 12, 0, 15, 0, 0, time.UTC), 1000),
		entryOn("github.com", "2025-05-12", time.Date(2025, 5, 12, 9, 30, 0, 0, time.UTC), 2000),
		entryOn("github.com", "2025-05-12", time.Date(2025, 5, 12, 23, 59, 0, 0, time.UTC), 3000),
	}

	report := BuildReport(entries, testSnapshot(), "1d")

	require.Len(t, report.HourlyBreakdown, 24)
	assert.Equal(t, int64(1000), report.HourlyBreakdown[0].Time)
	assert.Equal(t, "12:00 AM", report.HourlyBreakdown[0].Label)
	assert.Equal(t, int64(2000), report.HourlyBreakdown[9].Time)
	assert.Equal(t, "9:00 AM", report.HourlyBreakdown[9].Label)
	assert.Equal(t, int64(3000), report.HourlyBreakdown[23].Time)
	assert.Equal(t, "11:00 PM", report.HourlyBreakdown[23].Label)

	// незатронутые часы присутствуют с нулём
	assert.Equal(t, int64(0), report.HourlyBreakdown[5].Time)
}

func TestBuildReportCategoryShares(t *testing.T) {
	day := time.Date(2025, 5, 12, 12, 0, 0, 0, time.UTC)

	entries := []entity.TimeEntry{
		entryOn("github.com", "2025-05-12", day, 50_000),
		entryOn("youtube.com", "2025-05-12", day, 25_000),
		entryOn("example.com", "2025-05-12", day, 25_000),
	}

	report := BuildReport(entries, testSnapshot(), "7d")

	assert.Equal(t, 50, report.CategoryBreakdown.Productive)
	assert.Equal(t, 25, report.CategoryBreakdown.Unproductive)
	assert.Equal(t, 25, report.CategoryBreakdown.Neutral)
}

func TestBuildDayStatsTopTen(t *testing.T) {
	day := time.Date(2025, 5, 12, 12, 0, 0, 0, time.UTC)

	var entries []entity.TimeEntry
	for i := 0; i < 12; i++ {
		domain := fmt.Sprintf("site-%02d.com", i)
		entries = append(entries, entryOn(domain, "2025-05-12", day, int64(1000*(i+1))))
	}
	entries = append(entries, entryOn("github.com", "2025-05-12", day, 100_000))

	stats := BuildDayStats(entries, testSnapshot())

	require.Len(t, stats.TopSites, 10)
	assert.Equal(t, "github.com", stats.TopSites[0].Domain)
	assert.Equal(t, entity.CategoryProductive, stats.TopSites[0].Category)
	assert.Equal(t, int64(100_000), stats.ProductiveTime)
}

func TestBuildWeeklyStatsZeroFilled(t *testing.T) {
	dates := []string{
		"2025-05-06", "2025-05-07", "2025-05-08", "2025-05-09",
		"2025-05-10", "2025-05-11", "2025-05-12",
	}

	entries := []entity.TimeEntry{
		entryOn("github.com", "2025-05-07", time.Date(2025, 5, 7, 9, 0, 0, 0, time.UTC), 10_000),
		entryOn("youtube.com", "2025-05-12", time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC), 5_000),
		// за пределами недели — игнорируем
		entryOn("github.com", "2025-05-01", time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC), 99_000),
	}

	stats := BuildWeeklyStats(entries, testSnapshot(), dates)

	require.Len(t, stats.DailyBreakdown, 7)
	assert.Equal(t, int64(15_000), stats.TotalTime)
	assert.Equal(t, int64(10_000), stats.ProductiveTime)

	assert.Equal(t, "2025-05-06", stats.DailyBreakdown[0].Date)
	assert.Equal(t, int64(0), stats.DailyBreakdown[0].TotalTime)
	assert.Equal(t, int64(10_000), stats.DailyBreakdown[1].TotalTime)
	assert.Equal(t, int64(5_000), stats.DailyBreakdown[6].TotalTime)
	assert.Equal(t, int64(0), stats.DailyBreakdown[6].ProductiveTime)
}

func TestPeriodRange(t *testing.T) {
	now := time.Date(2025, 5, 12, 12, 0, 0, 0, time.UTC)

	start, end, err := periodRange("7d", now)
	require.NoError(t, err)
	assert.Equal(t, now, end)
	assert.Equal(t, now.AddDate(0, 0, -7), start)

	_, _, err = periodRange("2w", now)
	assert.Error(t, err)
}
