package pipeline

import (
	"context"
	"fmt"
)

type BatchSummary struct {
	Companies int
	Generated int
	Skipped   int
	Emailed   int
}

// RunBatch generates a report for every company in the registry,
// sequentially. One company's failure never aborts the batch: it is logged
// and skipped, and the loop moves on. Emails go out afterward for every
// company that produced a report.
func (g *Generator) RunBatch(ctx context.Context, companies CompanyLister, mailer EmailSender) (BatchSummary, error) {
	list, err := companies.List(ctx)
	if err != nil {
		return BatchSummary{}, fmt.Errorf("list companies: %w", err)
	}
	if len(list) == 0 {
		return BatchSummary{}, fmt.Errorf("no companies found in registry")
	}
	g.Log.WithField("companies", len(list)).Info("starting batch report generation")

	summary := BatchSummary{Companies: len(list)}
	type delivery struct {
		profile int
		result  Result
	}
	var deliveries []delivery

	for i, company := range list {
		if company.ID == "" {
			g.Log.Warn("company missing id, skipping")
			summary.Skipped++
			continue
		}
		log := g.Log.WithCompany(company.ID)

		res, err := g.Generate(ctx, Request{CompanyID: company.ID})
		if err != nil {
			log.WithError(err).Warn("report skipped")
			summary.Skipped++
			continue
		}
		summary.Generated++
		deliveries = append(deliveries, delivery{profile: i, result: res})
	}

	for _, d := range deliveries {
		profile := list[d.profile]
		log := g.Log.WithCompany(profile.ID).WithStage("email")
		if profile.Email == "" {
			log.Warn("company has no email, skipping delivery")
			continue
		}
		if err := mailer.SendReport(profile, d.result.SignedURL, log); err != nil {
			log.WithError(err).Error("report email failed")
			continue
		}
		summary.Emailed++
	}

	g.Log.WithField("generated", summary.Generated).
		WithField("skipped", summary.Skipped).
		WithField("emailed", summary.Emailed).
		Info("batch report generation completed")
	return summary, nil
}
