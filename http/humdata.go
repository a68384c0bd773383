package http

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fwojciec/humdesk"
)

// Crises lists crisis reports, newest first.
func (c *Client) Crises(ctx context.Context, q humdesk.CrisisQuery) ([]humdesk.Crisis, error) {
	if err := q.Page.Validate(); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	v := pageValues(q.Page)
	setNonEmpty(v, "source", q.Source)
	setNonEmpty(v, "q", q.Search)
	setNonEmpty(v, "country", q.Country)

	var out []apiCrisis
	if err := c.send(ctx, http.MethodGet, humdataPath+"/crises", v, nil, &out); err != nil {
		return nil, err
	}
	crises := make([]humdesk.Crisis, len(out))
	for i, r := range out {
		crises[i] = humdesk.Crisis{
			ID:          r.ID,
			Source:      r.Source,
			SourceID:    r.SourceID,
			Title:       r.Title,
			Country:     r.Country,
			URL:         r.URL,
			PublishedAt: r.PublishedAt.ptr(),
		}
	}
	return crises, nil
}

// Jobs lists job postings, newest first. Country matches the location.
func (c *Client) Jobs(ctx context.Context, q humdesk.JobQuery) ([]humdesk.Job, error) {
	if err := q.Page.Validate(); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	v := pageValues(q.Page)
	setNonEmpty(v, "source", q.Source)
	setNonEmpty(v, "q", q.Search)
	setNonEmpty(v, "org", q.Org)
	setNonEmpty(v, "country", q.Country)

	var out []apiJob
	if err := c.send(ctx, http.MethodGet, humdataPath+"/jobs", v, nil, &out); err != nil {
		return nil, err
	}
	jobs := make([]humdesk.Job, len(out))
	for i, r := range out {
		jobs[i] = humdesk.Job{
			ID:          r.ID,
			Source:      r.Source,
			SourceID:    r.SourceID,
			Title:       r.Title,
			Org:         r.Org,
			Location:    r.Location,
			URL:         r.URL,
			PublishedAt: r.PublishedAt.ptr(),
			Deadline:    r.Deadline.ptr(),
		}
	}
	return jobs, nil
}

// Funding lists funding flows, largest amount first.
func (c *Client) Funding(ctx context.Context, q humdesk.FundingQuery) ([]humdesk.FundingRecord, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	v := pageValues(q.Page)
	if q.Year > 0 {
		v.Set("year", strconv.Itoa(q.Year))
	}
	setNonEmpty(v, "country", q.Country)
	setNonEmpty(v, "cluster", q.Cluster)

	var out []apiFunding
	if err := c.send(ctx, http.MethodGet, humdataPath+"/funding", v, nil, &out); err != nil {
		return nil, err
	}
	records := make([]humdesk.FundingRecord, len(out))
	for i, r := range out {
		rec := humdesk.FundingRecord{
			ID:        r.ID,
			Country:   r.Country,
			Cluster:   r.Cluster,
			Donor:     r.Donor,
			Recipient: r.Recipient,
			Currency:  r.Currency,
		}
		if r.Year != nil {
			rec.Year = *r.Year
		}
		if r.Amount != nil {
			rec.Amount = *r.Amount
		}
		records[i] = rec
	}
	return records, nil
}

func pageValues(p humdesk.Page) url.Values {
	v := url.Values{}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		v.Set("offset", strconv.Itoa(p.Offset))
	}
	return v
}

func setNonEmpty(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
