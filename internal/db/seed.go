package db

import (
	"context"
	"fmt"
)

// DefaultRecruiters are the recruiters created by Seed.
var DefaultRecruiters = []Recruiter{
	{FirstName: "Sarah", LastName: "Johnson", Email: "sarah.johnson@recruitment.com"},
	{FirstName: "Michael", LastName: "Chen", Email: "michael.chen@recruitment.com"},
	{FirstName: "Emily", LastName: "Rodriguez", Email: "emily.rodriguez@recruitment.com"},
	{FirstName: "David", LastName: "Williams", Email: "david.williams@recruitment.com"},
	{FirstName: "Jessica", LastName: "Martinez", Email: "jessica.martinez@recruitment.com"},
}

// DefaultStepCategories are the English step category titles created by Seed.
var DefaultStepCategories = []string{"1st Interview", "Tech Assessment", "Offer", "Other"}

// DefaultStatusCategories are the status category titles created by Seed.
var DefaultStatusCategories = []string{"Pending", "Complete", "Reject"}

// SeedResult reports the rows present after seeding.
type SeedResult struct {
	Recruiters       []Recruiter
	StepCategories   []StepCategory
	StatusCategories []StatusCategory
}

// Seed inserts the reference data in one transaction. Running it again is a no-op.
func (db *DB) Seed(ctx context.Context) (*SeedResult, error) {
	res := &SeedResult{}
	err := db.InTx(ctx, func(q *Queries) error {
		for i := range DefaultRecruiters {
			r, err := q.EnsureRecruiter(ctx, &DefaultRecruiters[i])
			if err != nil {
				return err
			}
			res.Recruiters = append(res.Recruiters, *r)
		}
		for _, title := range DefaultStepCategories {
			c, err := q.EnsureStepCategory(ctx, title)
			if err != nil {
				return err
			}
			res.StepCategories = append(res.StepCategories, *c)
		}
		for _, title := range DefaultStatusCategories {
			c, err := q.EnsureStatusCategory(ctx, title)
			if err != nil {
				return err
			}
			res.StatusCategories = append(res.StatusCategories, *c)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed reference data: %w", err)
	}
	return res, nil
}
