package analysis

import q "github.com/ZanzyTHEbar/readiness-diagnosis/internal/questionnaire"

func entry(desc string, actions ...string) SWOTEntry {
	return SWOTEntry{Description: desc, ActionItems: actions}
}

var defaultQuestionEntries = map[string]map[Band]SWOTEntry{
	"ca1": {
		BandHigh: entry("AI tools are already part of daily work",
			"Document the workflows where AI saves the most time", "Share usage patterns across teams"),
		BandLow: entry("AI tools are not yet used in daily work",
			"Pick two repetitive tasks and trial an AI assistant on them", "Give staff access to an approved AI tool"),
	},
	"ca3": {
		BandHigh: entry("AI supports at least one core business process",
			"Measure the process gains and extend to adjacent processes"),
		BandLow: entry("No core business process uses AI yet",
			"Map core processes and rank them by automation potential", "Run a scoped pilot on the top candidate"),
	},
	"or1": {
		BandHigh: entry("Leadership actively sponsors AI adoption",
			"Turn sponsorship into a published AI roadmap"),
		BandLow: entry("Leadership sponsorship for AI is weak",
			"Hold an executive briefing on AI use cases in the industry", "Name an executive sponsor for AI initiatives"),
	},
	"or3": {
		BandHigh: entry("The organization invests in AI and digital skills",
			"Add advanced tracks for power users"),
		BandLow: entry("AI and digital skills training is missing",
			"Launch a basic AI literacy course for all staff", "Budget recurring training time per employee"),
	},
	"ti1": {
		BandHigh: entry("Business data is captured digitally",
			"Catalogue datasets that could feed AI use cases"),
		BandLow: entry("Much business data is still captured on paper or ad hoc",
			"Digitize the highest-volume forms first", "Standardize data capture templates"),
	},
	"ti2": {
		BandHigh: entry("Data is stored in integrated, accessible systems",
			"Expose curated data sets to analytics tools"),
		BandLow: entry("Data is scattered across disconnected systems",
			"Consolidate core records into one system of record", "Define data ownership per domain"),
	},
	"gc1": {
		BandHigh: entry("AI adoption goals are clearly defined",
			"Break goals down into quarterly milestones"),
		BandLow: entry("There are no defined goals for AI adoption",
			"Run a goal-setting workshop with department leads", "Write down three measurable AI objectives"),
	},
	"gc3": {
		BandHigh: entry("Success metrics for AI initiatives are in place",
			"Review metrics monthly and publish results"),
		BandLow: entry("AI initiatives lack success metrics",
			"Define a baseline and target metric per initiative"),
	},
	"ec1": {
		BandHigh: entry("The organization can launch pilots quickly",
			"Keep a backlog of ready-to-run pilot ideas"),
		BandLow: entry("Launching a pilot takes too long",
			"Pre-approve a small pilot budget and a standard pilot template"),
	},
	"ec3": {
		BandHigh: entry("External partners can be engaged when needed",
			"Build a short list of vetted AI vendors"),
		BandLow: entry("Access to external AI partners is limited",
			"Identify local vendors and public support programs", "Join an industry AI community"),
	},
}

var defaultCategoryEntries = map[string]map[Band]SWOTEntry{
	q.CategoryBusinessFoundation: {
		BandHigh: entry("A solid business foundation supports new initiatives",
			"Use stable processes as the first AI targets"),
		BandLow: entry("The business foundation needs strengthening before scaling AI",
			"Document core processes and KPIs", "Clarify decision rights"),
	},
	q.CategoryCurrentAI: {
		BandHigh: entry("AI is already actively used",
			"Scale proven use cases to more teams"),
		BandLow: entry("Current AI usage is low",
			"Start with low-risk generative AI use cases", "Set up an approved tool list and usage guideline"),
	},
	q.CategoryOrganizationReadiness: {
		BandHigh: entry("The organization is ready for change",
			"Form a cross-functional AI working group"),
		BandLow: entry("Organizational readiness for AI is low",
			"Appoint change champions in each department", "Communicate the AI vision and its impact on roles"),
	},
	q.CategoryTechInfrastructure: {
		BandHigh: entry("Technology infrastructure can support AI workloads",
			"Prepare data pipelines for AI use cases"),
		BandLow: entry("Technology infrastructure limits AI adoption",
			"Move core systems to managed cloud services", "Introduce basic data quality checks"),
	},
	q.CategoryGoalClarity: {
		BandHigh: entry("AI goals are clear and aligned with strategy",
			"Link AI goals to budget planning"),
		BandLow: entry("AI goals are unclear",
			"Prioritize use cases by value and feasibility", "Agree on success metrics with stakeholders"),
	},
	q.CategoryExecutionCapability: {
		BandHigh: entry("Execution capability is strong",
			"Run several pilots in parallel"),
		BandLow: entry("Execution capability is limited",
			"Adopt a lightweight project management routine", "Secure a dedicated pilot budget"),
	},
}

var defaultIndustryTemplates = map[string]IndustryTemplates{
	DefaultIndustryKey: {
		Opportunities: []string{
			"Generative AI lowers the cost of document and content work",
			"Government AI adoption vouchers reduce pilot costs",
		},
		Threats: []ThreatTemplate{
			{"Competitors adopting AI faster gain cost advantages", q.CategoryCurrentAI},
			{"Talent shortage for AI and data roles", q.CategoryOrganizationReadiness},
		},
	},
	"it": {
		Opportunities: []string{
			"AI coding assistants raise development productivity",
			"Demand for AI-enabled features in client products",
		},
		Threats: []ThreatTemplate{
			{"Fast-moving AI platforms commoditize existing services", q.CategoryCurrentAI},
			{"Competition for AI engineering talent", q.CategoryOrganizationReadiness},
			{"Security risks from unmanaged AI tooling", q.CategoryTechInfrastructure},
		},
	},
	"manufacturing": {
		Opportunities: []string{
			"Predictive maintenance reduces downtime",
			"Vision-based quality inspection",
			"Smart factory support programs",
		},
		Threats: []ThreatTemplate{
			{"Legacy equipment without data interfaces", q.CategoryTechInfrastructure},
			{"Global competitors with automated plants", q.CategoryExecutionCapability},
		},
	},
	"finance": {
		Opportunities: []string{
			"AI-driven fraud detection and credit scoring",
			"Automated customer service for routine requests",
		},
		Threats: []ThreatTemplate{
			{"Strict regulation of automated decisions", q.CategoryGoalClarity},
			{"Fintech entrants with AI-native products", q.CategoryCurrentAI},
			{"Data protection obligations", q.CategoryTechInfrastructure},
		},
	},
	"retail": {
		Opportunities: []string{
			"Personalized recommendations lift conversion",
			"Demand forecasting reduces inventory cost",
		},
		Threats: []ThreatTemplate{
			{"Platform marketplaces with stronger data assets", q.CategoryCurrentAI},
			{"Thin margins limit investment capacity", q.CategoryExecutionCapability},
		},
	},
	"healthcare": {
		Opportunities: []string{
			"Clinical documentation assistance",
			"AI-assisted scheduling and triage",
		},
		Threats: []ThreatTemplate{
			{"Patient data privacy requirements", q.CategoryTechInfrastructure},
			{"Clinical validation requirements slow rollout", q.CategoryExecutionCapability},
		},
	},
	"education": {
		Opportunities: []string{
			"Personalized learning content",
			"Automated grading support",
		},
		Threats: []ThreatTemplate{
			{"Staff resistance to changing teaching practice", q.CategoryOrganizationReadiness},
		},
	},
	"service": {
		Opportunities: []string{
			"AI chat agents for first-line customer contact",
			"Automated proposal and report drafting",
		},
		Threats: []ThreatTemplate{
			{"Clients expecting AI-driven price reductions", q.CategoryGoalClarity},
			{"Competitors packaging AI into services", q.CategoryCurrentAI},
		},
	},
	"logistics": {
		Opportunities: []string{
			"Route optimization",
			"Warehouse demand forecasting",
		},
		Threats: []ThreatTemplate{
			{"Fragmented partner systems", q.CategoryTechInfrastructure},
			{"Large carriers with automated networks", q.CategoryExecutionCapability},
		},
	},
	"construction": {
		Opportunities: []string{
			"AI-assisted estimation and scheduling",
			"Site safety monitoring",
		},
		Threats: []ThreatTemplate{
			{"Low digitization of site data", q.CategoryTechInfrastructure},
			{"Workforce unfamiliar with digital tools", q.CategoryOrganizationReadiness},
		},
	},
}

// DefaultSWOTLibrary returns the built-in SWOT lookups.
func DefaultSWOTLibrary() *SWOTLibrary {
	return &SWOTLibrary{
		Questions:  defaultQuestionEntries,
		Categories: defaultCategoryEntries,
		Industries: defaultIndustryTemplates,
	}
}
