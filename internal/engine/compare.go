package engine

import (
	"fmt"

	"github.com/amyrzhang/productionSchedule/internal/logging"
	"github.com/amyrzhang/productionSchedule/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.PlanSettings
}

// ComparisonResult holds the plan and computed statistics for a single
// scenario. Err is set when the scenario could not be planned; the other
// fields are then zero.
type ComparisonResult struct {
	Scenario          ComparisonScenario
	Plan              model.Plan
	Patterns          int
	Molds             int
	ByProductQuantity int
	Utilization       float64
	Err               error
}

// CompareScenarios builds a plan for each scenario and returns the results in
// scenario order. A failing scenario does not stop the others.
func CompareScenarios(scenarios []ComparisonScenario, orders []model.OrderLine, opts ...Option) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		p := New(scenario.Settings, opts...)
		plan, err := p.BuildPlan(orders)
		if err != nil {
			p.log.Warn("scenario failed",
				logging.String("scenario", scenario.Name),
				logging.Err(err),
			)
			results = append(results, ComparisonResult{Scenario: scenario, Err: err})
			continue
		}

		summary := plan.Summary()
		results = append(results, ComparisonResult{
			Scenario:          scenario,
			Plan:              plan,
			Patterns:          summary.PatternCount,
			Molds:             summary.TotalMolds,
			ByProductQuantity: summary.ByProductQuantity,
			Utilization:       summary.Utilization,
		})
	}

	return results
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current settings, varying the raw-unit length to show what-if
// alternatives. A shorter unit is only offered while it still holds one
// unit width, so folded blocks keep fitting.
func BuildDefaultScenarios(base model.PlanSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: base,
		},
	}

	const step = 1200

	if shorter := base.UnitLength - step; shorter >= base.UnitWidth && shorter > 0 {
		s := base
		s.UnitLength = shorter
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Unit length %dmm", shorter),
			Settings: s,
		})
	}

	longer := base
	longer.UnitLength = base.UnitLength + step
	scenarios = append(scenarios, ComparisonScenario{
		Name:     fmt.Sprintf("Unit length %dmm", longer.UnitLength),
		Settings: longer,
	})

	return scenarios
}
