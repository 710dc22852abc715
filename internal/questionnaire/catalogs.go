package questionnaire

import "fmt"

// DefaultScaleMax is the top of the 5-point answer scale.
const DefaultScaleMax = 5.0

// Category keys shared by both catalogs.
const (
	CategoryBusinessFoundation    = "businessFoundation"
	CategoryCurrentAI             = "currentAI"
	CategoryOrganizationReadiness = "organizationReadiness"
	CategoryTechInfrastructure    = "techInfrastructure"
	CategoryGoalClarity           = "goalClarity"
	CategoryExecutionCapability   = "executionCapability"
)

var categoryLabels = map[string]string{
	CategoryBusinessFoundation:    "Business Foundation",
	CategoryCurrentAI:             "Current AI Usage",
	CategoryOrganizationReadiness: "Organizational Readiness",
	CategoryTechInfrastructure:    "Technology Infrastructure",
	CategoryGoalClarity:           "Goal Clarity",
	CategoryExecutionCapability:   "Execution Capability",
}

// questionBank is the full item pool; the 20-item catalog is a subset of it so
// question ids mean the same thing in both variants.
var questionBank = map[string][]struct{ id, text string }{
	CategoryBusinessFoundation: {
		{"bf1", "Our business model and revenue streams are clearly defined"},
		{"bf2", "We track core performance indicators consistently"},
		{"bf3", "Business processes are documented and standardized"},
		{"bf4", "Customer needs are analysed systematically"},
		{"bf5", "We hold a clear competitive advantage in our market"},
		{"bf6", "Financial resources are available for new initiatives"},
		{"bf7", "Decision-making authority and accountability are clear"},
		{"bf8", "We regularly review market and industry trends"},
	},
	CategoryCurrentAI: {
		{"ca1", "We already use AI tools in day-to-day work"},
		{"ca2", "Employees understand what AI can and cannot do"},
		{"ca3", "AI is applied to at least one core business process"},
		{"ca4", "We measure the results of AI usage"},
		{"ca5", "Generative AI tools are used for content or documents"},
		{"ca6", "We have guidelines for responsible AI use"},
		{"ca7", "AI-related spending is budgeted"},
		{"ca8", "We have experience running AI pilot projects"},
	},
	CategoryOrganizationReadiness: {
		{"or1", "Leadership actively sponsors AI adoption"},
		{"or2", "Employees are open to changing how they work"},
		{"or3", "We provide AI and digital skills training"},
		{"or4", "Departments collaborate well on cross-functional projects"},
		{"or5", "A dedicated owner or team drives digital transformation"},
		{"or6", "Experimentation and failure are tolerated"},
		{"or7", "Change is communicated clearly across the organization"},
		{"or8", "Incentives reward innovation and improvement"},
	},
	CategoryTechInfrastructure: {
		{"ti1", "Business data is collected in digital form"},
		{"ti2", "Data is stored in integrated, accessible systems"},
		{"ti3", "Data quality is managed and monitored"},
		{"ti4", "Cloud services are used for core systems"},
		{"ti5", "Security and privacy controls are in place"},
		{"ti6", "Systems integrate through APIs or automation"},
		{"ti7", "IT staff or partners can support new tools"},
		{"ti8", "Infrastructure can scale with business growth"},
	},
	CategoryGoalClarity: {
		{"gc1", "We have defined goals for AI adoption"},
		{"gc2", "AI goals are linked to business strategy"},
		{"gc3", "Success metrics for AI initiatives are defined"},
		{"gc4", "Priority use cases have been identified"},
		{"gc5", "Expected return of AI initiatives has been estimated"},
		{"gc6", "Timelines for AI initiatives are set"},
		{"gc7", "Stakeholders agree on AI priorities"},
		{"gc8", "Goals are reviewed and updated regularly"},
	},
	CategoryExecutionCapability: {
		{"ec1", "We can launch a pilot project within three months"},
		{"ec2", "Project management practices are established"},
		{"ec3", "We can secure external partners or vendors when needed"},
		{"ec4", "Budget can be allocated quickly for proven initiatives"},
		{"ec5", "We scale successful pilots across the organization"},
	},
}

type categorySpec struct {
	key    string
	weight float64
	items  int
}

func buildCatalog(variant Variant, specs []categorySpec) *Catalog {
	categories := make([]Category, 0, len(specs))
	var questions []Question

	for _, spec := range specs {
		categories = append(categories, Category{Key: spec.key, Label: categoryLabels[spec.key]})
		bank := questionBank[spec.key]
		if spec.items > len(bank) {
			panic(fmt.Sprintf("catalog %s: category %s wants %d items, bank has %d", variant, spec.key, spec.items, len(bank)))
		}
		perItem := spec.weight / float64(spec.items)
		for _, item := range bank[:spec.items] {
			questions = append(questions, Question{
				ID:       item.id,
				Category: spec.key,
				Text:     item.text,
				Weight:   perItem,
				ScaleMax: DefaultScaleMax,
			})
		}
	}

	return NewCatalog(variant, categories, questions)
}

// CoreCatalog returns the 20-item, 5-category catalog.
func CoreCatalog() *Catalog {
	return buildCatalog(VariantCore, []categorySpec{
		{CategoryCurrentAI, 0.20, 4},
		{CategoryOrganizationReadiness, 0.20, 4},
		{CategoryTechInfrastructure, 0.20, 4},
		{CategoryGoalClarity, 0.20, 4},
		{CategoryExecutionCapability, 0.20, 4},
	})
}

// ExtendedCatalog returns the 45-item, 6-category catalog.
func ExtendedCatalog() *Catalog {
	return buildCatalog(VariantExtended, []categorySpec{
		{CategoryBusinessFoundation, 0.15, 8},
		{CategoryCurrentAI, 0.20, 8},
		{CategoryOrganizationReadiness, 0.20, 8},
		{CategoryTechInfrastructure, 0.15, 8},
		{CategoryGoalClarity, 0.15, 8},
		{CategoryExecutionCapability, 0.15, 5},
	})
}

// Catalogs returns every built-in catalog.
func Catalogs() []*Catalog {
	return []*Catalog{CoreCatalog(), ExtendedCatalog()}
}

// Lookup returns the built-in catalog for a variant. An empty variant selects the core catalog.
func Lookup(variant Variant) (*Catalog, error) {
	switch variant {
	case "", VariantCore:
		return CoreCatalog(), nil
	case VariantExtended:
		return ExtendedCatalog(), nil
	default:
		return nil, fmt.Errorf("unknown catalog variant %q", variant)
	}
}
