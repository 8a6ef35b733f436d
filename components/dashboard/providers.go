package dashboard

import (
	"context"
	"fmt"
)

const defaultListLimit = 10

// NewCountCardProvider serves a single-number stat card from a count
// endpoint.
func NewCountCardProvider(counts CountRepository, metric string) Provider {
	return ProviderFunc(func(ctx context.Context, cc CardContext) (CardData, error) {
		result, err := counts.FetchCount(ctx, metric, cc.Range)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", metric, err)
		}
		return CardData{
			"metric": metric,
			"value":  result.Total,
		}, nil
	})
}

// NewBreakdownCardProvider serves a label/count list card from a rollup
// dimension. The configured limit caps the rows returned; zero rows is a
// valid, empty card.
func NewBreakdownCardProvider(breakdowns BreakdownRepository, dimension string) Provider {
	return ProviderFunc(func(ctx context.Context, cc CardContext) (CardData, error) {
		rows, err := breakdowns.FetchBreakdown(ctx, dimension, cc.Range)
		if err != nil {
			return nil, fmt.Errorf("breakdown %s: %w", dimension, err)
		}
		limit := intOr(cc.Config["limit"], defaultListLimit)
		if limit > 0 && len(rows) > limit {
			rows = rows[:limit]
		}
		items := make([]map[string]any, 0, len(rows))
		for _, row := range rows {
			items = append(items, map[string]any{
				"label": row.Label,
				"count": row.Count,
			})
		}
		return CardData{
			"dimension": dimension,
			"items":     items,
			"total":     len(items),
		}, nil
	})
}

// NewComparisonCardProvider serves a two-series card contrasting the current
// range with the all-time rollup of the same dimension.
func NewComparisonCardProvider(breakdowns BreakdownRepository, dimension string) Provider {
	return ProviderFunc(func(ctx context.Context, cc CardContext) (CardData, error) {
		current, err := breakdowns.FetchBreakdown(ctx, dimension, cc.Range)
		if err != nil {
			return nil, fmt.Errorf("breakdown %s: %w", dimension, err)
		}
		baseline, err := breakdowns.FetchBreakdown(ctx, dimension, APIDateRange{})
		if err != nil {
			return nil, fmt.Errorf("breakdown %s baseline: %w", dimension, err)
		}
		byLabel := make(map[string]int, len(baseline))
		for _, row := range baseline {
			byLabel[row.Label] = row.Count
		}
		items := make([]map[string]any, 0, len(current))
		for _, row := range current {
			items = append(items, map[string]any{
				"label":    row.Label,
				"count":    row.Count,
				"all_time": byLabel[row.Label],
			})
		}
		return CardData{
			"dimension": dimension,
			"items":     items,
		}, nil
	})
}

// NewUserListCardProvider serves one cohort of the user-application list.
func NewUserListCardProvider(users UserListRepository, filter string) Provider {
	return ProviderFunc(func(ctx context.Context, cc CardContext) (CardData, error) {
		rows, err := users.FetchUserApplicationList(ctx, AllRows(), filter, cc.Range)
		if err != nil {
			return nil, fmt.Errorf("user list %s: %w", filter, err)
		}
		items := make([]map[string]any, 0, len(rows))
		for _, row := range rows {
			items = append(items, map[string]any{
				"user_id":        row.UserID,
				"full_name":      row.FullName,
				"target_country": row.TargetCountry,
				"target_role":    row.TargetJobRole,
				"status":         row.Status,
			})
		}
		return CardData{
			"filter": filter,
			"items":  items,
			"total":  len(items),
		}, nil
	})
}

// NewApplicantSummaryCardProvider serves the top-applicants cards. The
// summary variant carries per-user application totals alongside the names.
func NewApplicantSummaryCardProvider(stats StatsRepository, summary bool) Provider {
	return ProviderFunc(func(ctx context.Context, cc CardContext) (CardData, error) {
		limit := intOr(cc.Config["limit"], defaultListLimit)
		rows, err := stats.FetchApplicantSummaries(ctx, ListQuery{Page: 1, PageSize: fmt.Sprintf("%d", limit)}, cc.Range)
		if err != nil {
			return nil, fmt.Errorf("applicant summaries: %w", err)
		}
		items := make([]map[string]any, 0, len(rows))
		for _, row := range rows {
			item := map[string]any{
				"user_id":   row.UserID,
				"full_name": row.FullName,
			}
			if summary {
				item["total_applications"] = row.TotalApplications
			}
			items = append(items, item)
		}
		return CardData{"items": items}, nil
	})
}

// NewIncompleteProfilesCardProvider serves the incomplete-profile count.
func NewIncompleteProfilesCardProvider(stats StatsRepository) Provider {
	return ProviderFunc(func(ctx context.Context, cc CardContext) (CardData, error) {
		result, err := stats.FetchIncompleteProfiles(ctx, AllRows(), cc.Range)
		if err != nil {
			return nil, fmt.Errorf("incomplete profiles: %w", err)
		}
		return CardData{"value": result.Total}, nil
	})
}
