// internal/entity/analytics.go
package entity

type AnalyticsSummary struct {
	TotalTime         int64  `json:"totalTime"`
	ProductiveTime    int64  `json:"productiveTime"`
	UnproductiveTime  int64  `json:"unproductiveTime"`
	NeutralTime       int64  `json:"neutralTime"`
	ProductivityScore int    `json:"productivityScore"`
	AverageDailyTime  int64  `json:"averageDailyTime"`
	TotalDomains      int    `json:"totalDomains"`
	Period            string `json:"period"`
}

type DailyStat struct {
	Date              string `json:"date"`
	TotalTime         int64  `json:"totalTime"`
	ProductiveTime    int64  `json:"productiveTime"`
	UnproductiveTime  int64  `json:"unproductiveTime"`
	NeutralTime       int64  `json:"neutralTime"`
	UniqueDomains     int    `json:"uniqueDomains"`
	ProductivityScore int    `json:"productivityScore"`
}

type DomainStat struct {
	Domain         string   `json:"domain"`
	TotalTime      int64    `json:"totalTime"`
	Visits         int      `json:"visits"`
	Category       Category `json:"category"`
	AverageSession int64    `json:"averageSession"`
}

type HourlyStat struct {
	Hour  int    `json:"hour"`
	Label string `json:"label"`
	Time  int64  `json:"time"`
}

type CategoryShares struct {
	Productive   int `json:"productive"`
	Unproductive int `json:"unproductive"`
	Neutral      int `json:"neutral"`
}

type AnalyticsReport struct {
	Summary           AnalyticsSummary `json:"summary"`
	DailyBreakdown    []DailyStat      `json:"dailyBreakdown"`
	TopDomains        []DomainStat     `json:"topDomains"`
	HourlyBreakdown   []HourlyStat     `json:"hourlyBreakdown"`
	CategoryBreakdown CategoryShares   `json:"categoryBreakdown"`
}

// Dashboard

type TopSite struct {
	Domain   string   `json:"domain"`
	Time     int64    `json:"time"`
	Category Category `json:"category"`
}

type DayStats struct {
	TotalTime      int64     `json:"totalTime"`
	ProductiveTime int64     `json:"productiveTime"`
	TopSites       []TopSite `json:"topSites"`
}

type WeekDayStat struct {
	Date           string `json:"date"`
	TotalTime      int64  `json:"totalTime"`
	ProductiveTime int64  `json:"productiveTime"`
}

type WeeklyStats struct {
	TotalTime      int64         `json:"totalTime"`
	ProductiveTime int64         `json:"productiveTime"`
	DailyBreakdown []WeekDayStat `json:"dailyBreakdown"`
}

type DashboardResponse struct {
	TodayStats  DayStats    `json:"todayStats"`
	WeeklyStats WeeklyStats `json:"weeklyStats"`
	Categories  Categories  `json:"categories"`
}
