package models

import (
	"time"
)

// JobRecord is one persisted listing. JobLink is the natural key; records are
// written once and never updated by the scraper.
type JobRecord struct {
	ID        int64     `json:"id"`
	Company   string    `json:"company"`
	Title     string    `json:"title"`
	Salary    *int      `json:"salary,omitempty"` // annual, single representative value
	Location  string    `json:"location"`
	JobType   string    `json:"job_type"` // seniority label, e.g. "Senior level"
	PostDate  time.Time `json:"post_date"`
	JobLink   string    `json:"job_link"`
	CreatedAt time.Time `json:"created_at"`
}
