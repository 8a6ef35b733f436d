package dashboard

// Card codes for the built-in dashboard set. Stored preferences reference
// these; unknown codes in a stored selection are skipped at compose time.
const (
	CardTotalTickets             = "insights.card.total_tickets"
	CardTotalJobs                = "insights.card.total_jobs"
	CardEmployerPolicyStatus     = "insights.card.employer_policy_status"
	CardStatusDistribution       = "insights.card.status_distribution"
	CardApplicationStatusTrend   = "insights.card.application_status_trend"
	CardUsersTrend               = "insights.card.users_trend"
	CardTopJobRoles              = "insights.card.top_job_roles"
	CardTopTargetRoles           = "insights.card.top_target_roles"
	CardTopApplicants            = "insights.card.top_applicants"
	CardTopApplicantsSummary     = "insights.card.top_applicants_summary"
	CardUsersApplied             = "insights.card.users_applied"
	CardUsersNotApplied          = "insights.card.users_not_applied"
	CardJobsByCompany            = "insights.card.jobs_by_company"
	CardJobsByCompanyComparison  = "insights.card.jobs_by_company_comparison"
	CardCompanyPopularity        = "insights.card.company_popularity"
	CardJobStatusList            = "insights.card.job_status_list"
	CardCompanyStatusCounts      = "insights.card.company_status_counts"
	CardTopCountries             = "insights.card.top_countries"
	CardTopCountriesComparison   = "insights.card.top_countries_comparison"
	CardUserFeedEngagement       = "insights.card.user_feed_engagement"
	CardTopCommunities           = "insights.card.top_communities"
	CardIncompleteProfiles       = "insights.card.incomplete_profiles"
)

// Breakdown dimensions understood by the insights gateway.
const (
	DimensionJobRoles          = "job_roles"
	DimensionTargetRoles       = "target_roles"
	DimensionCompanies         = "companies"
	DimensionCompanyPopularity = "company_popularity"
	DimensionJobStatus         = "job_status"
	DimensionCompanyStatus     = "company_status"
	DimensionCountries         = "countries"
	DimensionCommunities       = "communities"
	DimensionFeedEngagement    = "feed_engagement"
	DimensionEmployerPolicy    = "employer_policy"
	DimensionApplicationStatus = "application_status"
)

// Cohort filters accepted by the user-application list endpoint.
const (
	FilterApplied    = "applied"
	FilterNotApplied = "not_applied"
)

var limitSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"limit": map[string]any{"type": "integer", "minimum": 1, "maximum": 100, "default": 10},
	},
}

var defaultCardDefinitions = []CardDefinition{
	{Code: CardTotalTickets, Name: "Total Tickets", Description: "Support tickets opened in range", Category: "stats"},
	{Code: CardTotalJobs, Name: "Total Jobs", Description: "Jobs published in range", Category: "stats"},
	{Code: CardEmployerPolicyStatus, Name: "Employer Policy Status", Description: "Employers grouped by policy state", Category: "companies"},
	{Code: CardStatusDistribution, Name: "Status Distribution", Description: "Applications grouped by status", Category: "applications"},
	{Code: CardApplicationStatusTrend, Name: "Application Status Trend", Description: "Application status mix over the range", Category: "charts"},
	{
		Code:        CardUsersTrend,
		Name:        "Users Trend",
		Description: "New user registrations over time",
		Category:    "charts",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"color": map[string]any{"type": "string"},
				"goal":  map[string]any{"type": "number", "minimum": 0},
			},
		},
	},
	{Code: CardTopJobRoles, Name: "Top Job Roles", Description: "Most posted job roles", Category: "jobs", Schema: limitSchema},
	{Code: CardTopTargetRoles, Name: "Top Target Roles", Description: "Most wanted roles across profiles", Category: "users", Schema: limitSchema},
	{Code: CardTopApplicants, Name: "Top Applicants", Description: "Users with the most applications", Category: "users", Schema: limitSchema},
	{Code: CardTopApplicantsSummary, Name: "Top Applicants Summary", Description: "Applicant totals with profile context", Category: "users", Schema: limitSchema},
	{Code: CardUsersApplied, Name: "Users Who Applied", Description: "Users with at least one application in range", Category: "users"},
	{Code: CardUsersNotApplied, Name: "Users Who Have Not Applied", Description: "Registered users without applications in range", Category: "users"},
	{Code: CardJobsByCompany, Name: "Jobs by Company", Description: "Open roles per employer", Category: "companies", Schema: limitSchema},
	{Code: CardJobsByCompanyComparison, Name: "Jobs by Company Comparison", Description: "Per-employer jobs, range vs all time", Category: "companies"},
	{Code: CardCompanyPopularity, Name: "Company Popularity", Description: "Employers ranked by applications received", Category: "companies", Schema: limitSchema},
	{Code: CardJobStatusList, Name: "Job Status List", Description: "Jobs grouped by publication status", Category: "jobs"},
	{Code: CardCompanyStatusCounts, Name: "Company Status Counts", Description: "Employers grouped by account status", Category: "companies"},
	{Code: CardTopCountries, Name: "Top Countries", Description: "Target countries ranked by interest", Category: "users", Schema: limitSchema},
	{Code: CardTopCountriesComparison, Name: "Top Countries Comparison", Description: "Country interest, range vs all time", Category: "users"},
	{Code: CardUserFeedEngagement, Name: "User Feed Engagement", Description: "Feed interactions per user segment", Category: "feeds"},
	{Code: CardTopCommunities, Name: "Top Communities", Description: "Most active communities", Category: "feeds", Schema: limitSchema},
	{Code: CardIncompleteProfiles, Name: "Incomplete Profiles", Description: "Users whose profile is missing required fields", Category: "users"},
}

// DefaultCardDefinitions returns the built-in card catalog.
func DefaultCardDefinitions() []CardDefinition {
	defs := make([]CardDefinition, len(defaultCardDefinitions))
	copy(defs, defaultCardDefinitions)
	return defs
}

// Repositories bundles the gateway-backed repositories the default
// providers draw from. Nil fields leave the corresponding cards without a
// provider; those cards then compose as error slots rather than breaking
// the dashboard.
type Repositories struct {
	Stats      StatsRepository
	Trends     TrendRepository
	Breakdowns BreakdownRepository
	Counts     CountRepository
	Users      UserListRepository

	// Charts renders the chart-backed cards; nil falls back to a default
	// renderer.
	Charts *ChartRenderer
}

// RegisterDefaultProviders attaches providers for the built-in card set.
// The chart-backed cards attach through ChartCardHook instead so they
// follow the hook path.
func RegisterDefaultProviders(reg *Registry, repos Repositories) error {
	providers := map[string]Provider{}

	if repos.Counts != nil {
		providers[CardTotalTickets] = NewCountCardProvider(repos.Counts, "tickets")
		providers[CardTotalJobs] = NewCountCardProvider(repos.Counts, "jobs")
	}
	if repos.Breakdowns != nil {
		providers[CardEmployerPolicyStatus] = NewBreakdownCardProvider(repos.Breakdowns, DimensionEmployerPolicy)
		providers[CardStatusDistribution] = NewBreakdownCardProvider(repos.Breakdowns, DimensionApplicationStatus)
		providers[CardTopJobRoles] = NewBreakdownCardProvider(repos.Breakdowns, DimensionJobRoles)
		providers[CardTopTargetRoles] = NewBreakdownCardProvider(repos.Breakdowns, DimensionTargetRoles)
		providers[CardJobsByCompany] = NewBreakdownCardProvider(repos.Breakdowns, DimensionCompanies)
		providers[CardCompanyPopularity] = NewBreakdownCardProvider(repos.Breakdowns, DimensionCompanyPopularity)
		providers[CardJobStatusList] = NewBreakdownCardProvider(repos.Breakdowns, DimensionJobStatus)
		providers[CardCompanyStatusCounts] = NewBreakdownCardProvider(repos.Breakdowns, DimensionCompanyStatus)
		providers[CardTopCountries] = NewBreakdownCardProvider(repos.Breakdowns, DimensionCountries)
		providers[CardUserFeedEngagement] = NewBreakdownCardProvider(repos.Breakdowns, DimensionFeedEngagement)
		providers[CardTopCommunities] = NewBreakdownCardProvider(repos.Breakdowns, DimensionCommunities)
		providers[CardJobsByCompanyComparison] = NewComparisonCardProvider(repos.Breakdowns, DimensionCompanies)
		providers[CardTopCountriesComparison] = NewComparisonCardProvider(repos.Breakdowns, DimensionCountries)
	}
	if repos.Users != nil {
		providers[CardUsersApplied] = NewUserListCardProvider(repos.Users, FilterApplied)
		providers[CardUsersNotApplied] = NewUserListCardProvider(repos.Users, FilterNotApplied)
	}
	if repos.Stats != nil {
		providers[CardTopApplicants] = NewApplicantSummaryCardProvider(repos.Stats, false)
		providers[CardTopApplicantsSummary] = NewApplicantSummaryCardProvider(repos.Stats, true)
		providers[CardIncompleteProfiles] = NewIncompleteProfilesCardProvider(repos.Stats)
	}
	for code, provider := range providers {
		if err := reg.RegisterProvider(code, provider); err != nil {
			return err
		}
	}
	return nil
}
