package humdesk

import (
	"context"
	"time"
)

// Crisis is a humanitarian crisis report.
type Crisis struct {
	ID          string
	Source      string
	SourceID    string
	Title       string
	Country     string
	URL         string
	PublishedAt *time.Time
}

// Job is a humanitarian job posting.
type Job struct {
	ID          string
	Source      string
	SourceID    string
	Title       string
	Org         string
	Location    string
	URL         string
	PublishedAt *time.Time
	Deadline    *time.Time
}

// FundingRecord is one humanitarian funding flow.
type FundingRecord struct {
	ID        string
	Year      int
	Country   string
	Cluster   string
	Donor     string
	Recipient string
	Amount    float64
	Currency  string
}

// Page selects a window of results. Zero Limit means the server default.
type Page struct {
	Limit  int
	Offset int
}

// CrisisQuery filters crises. Empty fields are not applied.
type CrisisQuery struct {
	Source  string
	Search  string
	Country string
	Page
}

// JobQuery filters job postings. Empty fields are not applied.
type JobQuery struct {
	Source  string
	Search  string
	Org     string
	Country string
	Page
}

// FundingQuery filters funding records. Zero Year is not applied.
type FundingQuery struct {
	Year    int
	Country string
	Cluster string
	Page
}

// HumdataService queries the read-only humanitarian datasets.
type HumdataService interface {
	Crises(ctx context.Context, q CrisisQuery) ([]Crisis, error)
	Jobs(ctx context.Context, q JobQuery) ([]Job, error)
	Funding(ctx context.Context, q FundingQuery) ([]FundingRecord, error)
}
