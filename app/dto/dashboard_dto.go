package dto

import "github.com/okhira/mijikai/models"

// DashboardData is the owner-facing dashboard payload
type DashboardData struct {
	TotalLink    int               `json:"total_link"`
	TotalClick   int               `json:"total_click"`
	UniqVisitors int               `json:"uniq_visitors"`
	TopLinks     []models.TopLink  `json:"top_links"`
	StatLinks    []models.StatLink `json:"stat_links"`
	Limited      bool              `json:"limited,omitempty"`
}

// NewDashboardData maps the analytics reply to the response shape. The
// limited flag is the caller-visible advisory for partial data.
func NewDashboardData(resp *models.DashboardResponse) DashboardData {
	return DashboardData{
		TotalLink:    resp.TotalLinks,
		TotalClick:   resp.TotalClicks,
		UniqVisitors: resp.UniqVisitors,
		TopLinks:     resp.TopLinks,
		StatLinks:    resp.StatLinks,
		Limited:      resp.IsLimited(),
	}
}
