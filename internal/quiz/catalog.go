// Package quiz holds the after-sales maturity question catalog and the
// scoring, persona and recommendation rules evaluated against it.
package quiz

import (
	"fmt"
	"math"
)

// Category is one of the six after-sales performance dimensions.
type Category string

const (
	CategoryFirstTimeFix Category = "FTF"
	CategoryRemoteTriage Category = "RemoteTriage"
	CategoryParts        Category = "Parts"
	CategoryETA          Category = "ETA"
	CategoryPlaybooks    Category = "Playbooks"
	CategoryPredictive   Category = "Predictive"
)

// HeadroomCeiling is the score at or above which a category is considered to
// have nothing left to improve.
const HeadroomCeiling = 95.0

// categories is the declaration order. Every ordered walk over categories
// (scoring, tie-breaks, rendering) uses it.
var categories = []Category{
	CategoryFirstTimeFix,
	CategoryRemoteTriage,
	CategoryParts,
	CategoryETA,
	CategoryPlaybooks,
	CategoryPredictive,
}

type categoryInfo struct {
	label     string
	weight    float64
	threshold float64
	basic     []string
	advanced  []string
}

var categoryTable = map[Category]categoryInfo{
	CategoryFirstTimeFix: {
		label:     "First-Time-Fix",
		weight:    0.25,
		threshold: 86,
		basic: []string{
			"Add a mandatory pre-dispatch checklist to lift First-Time-Fix.",
			"Coach the 3 lowest-FTF techs using shadowing + 'golden fixes'.",
			"Publish a weekly wallboard for FTF, MTTR, repeat-visit rate.",
		},
		advanced: []string{
			"Link repeat visits to root causes and feed them back into golden fixes.",
			"Set per-product FTF targets and review misses in a weekly huddle.",
			"Pair remote experts with field techs on complex jobs in real time.",
		},
	},
	CategoryRemoteTriage: {
		label:     "Remote Triage",
		weight:    0.20,
		threshold: 75,
		basic: []string{
			"Require photo/video + 5 checks before dispatch (remote triage).",
			"Resolve simple config issues remotely; log 'remote saves'.",
			"Add error-code quick guides to your field app.",
		},
		advanced: []string{
			"Offer guided self-service fixes to customers for the top 5 error codes.",
			"Route tickets by diagnosed skill instead of geography.",
			"Use remote sessions to pre-stage parts before the first visit.",
		},
	},
	CategoryParts: {
		label:     "Parts Availability",
		weight:    0.20,
		threshold: 91,
		basic: []string{
			"Create 5 service kits for your top failure modes.",
			"Tag top 100 SKUs by criticality; raise fill-rate on criticals.",
			"Align van stock to golden fixes to reduce repeat visits.",
		},
		advanced: []string{
			"Forecast critical parts demand from installed base and failure history.",
			"Share kit usage data with suppliers to shorten replenishment lead time.",
			"Rebalance van stock monthly based on actual consumption.",
		},
	},
	CategoryETA: {
		label:     "ETA Discipline",
		weight:    0.15,
		threshold: 80,
		basic: []string{
			"Stand up ETA SLAs: T+2h initial; T+24h confirmed.",
			"Auto-notify customers on any ETA change.",
			"Expose ETA status on a simple customer-facing page.",
		},
		advanced: []string{
			"Offer customer self-booking of visit windows.",
			"Track ETA accuracy per region and publish it monthly.",
			"Predict ETA slips from parts and technician load and warn proactively.",
		},
	},
	CategoryPlaybooks: {
		label:     "Playbooks",
		weight:    0.10,
		threshold: 80,
		basic: []string{
			"Document the top 10 'golden fixes' step-by-step.",
			"Capture serial/model data on >95% of service events.",
			"Add in-app checklists and short fix videos for techs.",
		},
		advanced: []string{
			"Version playbooks and retire steps that no longer move FTF.",
			"Let techs submit playbook improvements from the field app.",
			"Certify techs on golden fixes and track certification coverage.",
		},
	},
	CategoryPredictive: {
		label:     "Predictive Monitoring",
		weight:    0.10,
		threshold: 80,
		basic: []string{
			"Run a 12-week predictive pilot on one critical subsystem.",
			"Instrument thresholds/alerts; track avoided downtime.",
			"Review pilot ROI; scale only what moved MTTR/FTF.",
		},
		advanced: []string{
			"Extend condition monitoring to all critical assets fleet-wide.",
			"Trigger work orders automatically from predictive alerts.",
			"Package predictive monitoring as a paid service tier.",
		},
	},
}

var maintenanceChecklist = []string{
	"Monitor performance trends",
	"Share best practices",
	"Plan next-level improvements",
	"Re-take this quiz every quarter to confirm scores hold",
}

var nextSteps = []string{
	"Review your category scores and focus on areas below 80%",
	"Implement the recommended improvements over the next 30 days",
	"Re-take this quiz in 30 days to measure progress",
	"Contact us for detailed implementation support",
}

// Categories returns the six categories in declaration order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory resolves a wire name such as "FTF" to a Category.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	_, ok := categoryTable[c]
	return c, ok
}

func (c Category) String() string { return string(c) }

// Label is the human readable category name.
func (c Category) Label() string { return categoryTable[c].label }

// Weight returns the category's share of the overall score.
func Weight(c Category) float64 { return categoryTable[c].weight }

// Threshold returns the minimum average considered strong for c.
func Threshold(c Category) float64 { return categoryTable[c].threshold }

// WeightLabel renders the weight as a whole percentage, e.g. "25%".
func WeightLabel(c Category) string {
	return fmt.Sprintf("%d%%", int(math.Round(Weight(c)*100)))
}

// BasicActions returns the three canned quick-win actions for c in priority order.
func BasicActions(c Category) []string {
	return append([]string(nil), categoryTable[c].basic...)
}

// AdvancedActions returns the three canned next-horizon actions for c.
func AdvancedActions(c Category) []string {
	return append([]string(nil), categoryTable[c].advanced...)
}

// MaintenanceChecklist is shown when every category sits at or above the headroom ceiling.
func MaintenanceChecklist() []string {
	return append([]string(nil), maintenanceChecklist...)
}

// NextSteps is the numbered follow-up block shared by every report.
func NextSteps() []string {
	return append([]string(nil), nextSteps...)
}

// ValidateCatalog checks the static tables for internal consistency.
func ValidateCatalog() error {
	var sum float64
	for _, c := range categories {
		info, ok := categoryTable[c]
		if !ok {
			return fmt.Errorf("category %s has no table entry", c)
		}
		if len(info.basic) != 3 || len(info.advanced) != 3 {
			return fmt.Errorf("category %s must have 3 basic and 3 advanced actions", c)
		}
		sum += info.weight
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("category weights sum to %v, want 1.0", sum)
	}

	seen := make(map[string]bool, len(questions))
	covered := make(map[Category]bool, len(categories))
	for _, q := range questions {
		if seen[q.ID] {
			return fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = true
		if _, ok := categoryTable[q.Category]; !ok {
			return fmt.Errorf("question %s has unknown category %q", q.ID, q.Category)
		}
		covered[q.Category] = true
		if len(q.Options) == 0 {
			return fmt.Errorf("question %s has no options", q.ID)
		}
		for _, o := range q.Options {
			if o.Value < 0 || o.Value > 100 {
				return fmt.Errorf("question %s option %q value %d out of range", q.ID, o.Label, o.Value)
			}
		}
	}
	for _, c := range categories {
		if !covered[c] {
			return fmt.Errorf("category %s has no questions", c)
		}
	}
	return nil
}
