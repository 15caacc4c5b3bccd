// internal/service/analytics/aggregate.go
package service

import (
	"math"
	"sort"

	"github.com/dinerozz/focus-tracker-backend/internal/entity"
	"github.com/dinerozz/focus-tracker-backend/internal/service/category"
	"github.com/dinerozz/focus-tracker-backend/pkg/utils"
)

const topDomainsLimit = 20

type dailyAccumulator struct {
	totalTime        int64
	productiveTime   int64
	unproductiveTime int64
	neutralTime      int64
	domains          map[string]struct{}
}

type domainAccumulator struct {
	totalTime int64
	visits    int
	category  entity.Category
}

// BuildReport aggregates raw entries into the full analytics report in a
// single pass over the input. Categories come from the snapshot, so every
// entry is classified against the same set state.
func BuildReport(entries []entity.TimeEntry, snapshot *category.Snapshot, period string) *entity.AnalyticsReport {
	daily := make(map[string]*dailyAccumulator)
	domains := make(map[string]*domainAccumulator)
	var hourly [24]int64

	var summary entity.AnalyticsSummary
	summary.Period = period

	for i := range entries {
		entry := &entries[i]
		cat := snapshot.Classify(entry.Domain)

		summary.TotalTime += entry.TimeSpent
		switch cat {
		case entity.CategoryProductive:
			summary.ProductiveTime += entry.TimeSpent
		case entity.CategoryUnproductive:
			summary.UnproductiveTime += entry.TimeSpent
		default:
			summary.NeutralTime += entry.TimeSpent
		}

		day, ok := daily[entry.Date]
		if !ok {
			day = &dailyAccumulator{domains: make(map[string]struct{})}
			daily[entry.Date] = day
		}
		day.totalTime += entry.TimeSpent
		switch cat {
		case entity.CategoryProductive:
			day.productiveTime += entry.TimeSpent
		case entity.CategoryUnproductive:
			day.unproductiveTime += entry.TimeSpent
		default:
			day.neutralTime += entry.TimeSpent
		}
		day.domains[entry.Domain] = struct{}{}

		dom, ok := domains[entry.Domain]
		if !ok {
			dom = &domainAccumulator{category: cat}
			domains[entry.Domain] = dom
		}
		dom.totalTime += entry.TimeSpent
		dom.visits++

		hour := utils.ToTracker(entry.StartedAt).Hour()
		hourly[hour] += entry.TimeSpent
	}

	summary.ProductivityScore = scoreOf(summary.ProductiveTime, summary.TotalTime)
	summary.TotalDomains = len(domains)
	if len(daily) > 0 {
		summary.AverageDailyTime = summary.TotalTime / int64(len(daily))
	}

	return &entity.AnalyticsReport{
		Summary:           summary,
		DailyBreakdown:    buildDailyBreakdown(daily),
		TopDomains:        buildTopDomains(domains),
		HourlyBreakdown:   buildHourlyBreakdown(hourly),
		CategoryBreakdown: buildCategoryShares(summary),
	}
}

func buildDailyBreakdown(daily map[string]*dailyAccumulator) []entity.DailyStat {
	stats := make([]entity.DailyStat, 0, len(daily))
	for date, acc := range daily {
		stats = append(stats, entity.DailyStat{
			Date:              date,
			TotalTime:         acc.totalTime,
			ProductiveTime:    acc.productiveTime,
			UnproductiveTime:  acc.unproductiveTime,
			NeutralTime:       acc.neutralTime,
			UniqueDomains:     len(acc.domains),
			ProductivityScore: scoreOf(acc.productiveTime, acc.totalTime),
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Date < stats[j].Date
	})

	return stats
}

func buildTopDomains(domains map[string]*domainAccumulator) []entity.DomainStat {
	stats := make([]entity.DomainStat, 0, len(domains))
	for domain, acc := range domains {
		stat := entity.DomainStat{
			Domain:    domain,
			TotalTime: acc.totalTime,
			Visits:    acc.visits,
			Category:  acc.category,
		}
		if acc.visits > 0 {
			stat.AverageSession = acc.totalTime / int64(acc.visits)
		}
		stats = append(stats, stat)
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TotalTime != stats[j].TotalTime {
			return stats[i].TotalTime > stats[j].TotalTime
		}
		return stats[i].Domain < stats[j].Domain
	})

	if len(stats) > topDomainsLimit {
		stats = stats[:topDomainsLimit]
	}

	return stats
}

// buildHourlyBreakdown always emits 24 buckets so charts stay aligned.
func buildHourlyBreakdown(hourly [24]int64) []entity.HourlyStat {
	stats := make([]entity.HourlyStat, 24)
	for hour := 0; hour < 24; hour++ {
		stats[hour] = entity.HourlyStat{
			Hour:  hour,
			Label: utils.FormatHourTimestamp(hour),
			Time:  hourly[hour],
		}
	}
	return stats
}

func buildCategoryShares(summary entity.AnalyticsSummary) entity.CategoryShares {
	return entity.CategoryShares{
		Productive:   scoreOf(summary.ProductiveTime, summary.TotalTime),
		Unproductive: scoreOf(summary.UnproductiveTime, summary.TotalTime),
		Neutral:      scoreOf(summary.NeutralTime, summary.TotalTime),
	}
}

// scoreOf is the rounded percentage of part in total, 0 when total is 0.
func scoreOf(part, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// BuildDayStats is the dashboard "today" card: totals plus the ten sites
// with the most time.
func BuildDayStats(entries []entity.TimeEntry, snapshot *category.Snapshot) entity.DayStats {
	stats := entity.DayStats{TopSites: []entity.TopSite{}}

	perDomain := make(map[string]int64)
	for i := range entries {
		entry := &entries[i]
		stats.TotalTime += entry.TimeSpent
		if snapshot.Classify(entry.Domain) == entity.CategoryProductive {
			stats.ProductiveTime += entry.TimeSpent
		}
		perDomain[entry.Domain] += entry.TimeSpent
	}

	for domain, total := range perDomain {
		stats.TopSites = append(stats.TopSites, entity.TopSite{
			Domain:   domain,
			Time:     total,
			Category: snapshot.Classify(domain),
		})
	}

	sort.Slice(stats.TopSites, func(i, j int) bool {
		if stats.TopSites[i].Time != stats.TopSites[j].Time {
			return stats.TopSites[i].Time > stats.TopSites[j].Time
		}
		return stats.TopSites[i].Domain < stats.TopSites[j].Domain
	})

	if len(stats.TopSites) > 10 {
		stats.TopSites = stats.TopSites[:10]
	}

	return stats
}

// BuildWeeklyStats zero-fills the last seven dates ending at endDate so the
// chart never has gaps. dates must be the seven YYYY-MM-DD strings in order.
func BuildWeeklyStats(entries []entity.TimeEntry, snapshot *category.Snapshot, dates []string) entity.WeeklyStats {
	perDay := make(map[string]*entity.WeekDayStat, len(dates))
	stats := entity.WeeklyStats{DailyBreakdown: make([]entity.WeekDayStat, len(dates))}

	for i, date := range dates {
		stats.DailyBreakdown[i] = entity.WeekDayStat{Date: date}
		perDay[date] = &stats.DailyBreakdown[i]
	}

	for i := range entries {
		entry := &entries[i]
		day, ok := perDay[entry.Date]
		if !ok {
			continue
		}

		day.TotalTime += entry.TimeSpent
		stats.TotalTime += entry.TimeSpent

		if snapshot.Classify(entry.Domain) == entity.CategoryProductive {
			day.ProductiveTime += entry.TimeSpent
			stats.ProductiveTime += entry.TimeSpent
		}
	}

	return stats
}
