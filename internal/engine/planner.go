package engine

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/amyrzhang/productionSchedule/internal/logging"
	"github.com/amyrzhang/productionSchedule/internal/model"
)

// Planner turns an order book into a production cutting plan.
type Planner struct {
	Settings model.PlanSettings
	log      logging.Logger
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger sets the logger used for per-group and per-plan entries.
func WithLogger(l logging.Logger) Option {
	return func(p *Planner) {
		if l != nil {
			p.log = l
		}
	}
}

// New returns a Planner for settings. Without options it logs nowhere.
func New(settings model.PlanSettings, opts ...Option) *Planner {
	p := &Planner{Settings: settings, log: logging.NewNopLogger()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// groupResult is the packed output of one width group, with pattern indices
// local to the group (0-based) until the plan is assembled.
type groupResult struct {
	patterns []model.Pattern
	rows     []model.PlanRow
}

// BuildPlan runs the full pipeline: normalize, fold blocks, aggregate,
// partition by width, pack each group, reinject blocks, attach by-products
// and assemble the plan. Any error aborts the whole plan.
func (p *Planner) BuildPlan(orders []model.OrderLine) (model.Plan, error) {
	if err := p.Settings.Validate(); err != nil {
		return model.Plan{}, err
	}

	products, err := normalizeOrders(orders, p.Settings)
	if err != nil {
		return model.Plan{}, err
	}
	folded, queues := foldBlocks(products, p.Settings)
	groups := partitionByWidth(aggregateDemand(folded, p.Settings))

	results := make([]groupResult, len(groups))
	if p.Settings.Parallel {
		var g errgroup.Group
		for i, grp := range groups {
			i, grp := i, grp
			g.Go(func() error {
				r, err := p.planGroup(grp, queues[grp.Width])
				if err != nil {
					return fmt.Errorf("width %d: %w", grp.Width, err)
				}
				results[i] = r
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return model.Plan{}, err
		}
	} else {
		for i, grp := range groups {
			r, err := p.planGroup(grp, queues[grp.Width])
			if err != nil {
				return model.Plan{}, fmt.Errorf("width %d: %w", grp.Width, err)
			}
			results[i] = r
		}
	}

	plan := assemblePlan(model.NewPlan(p.Settings), results)

	summary := plan.Summary()
	p.log.Info("plan built",
		logging.String("plan_id", plan.ID),
		logging.Int("orders", len(orders)),
		logging.Int("width_groups", len(groups)),
		logging.Int("patterns", summary.PatternCount),
		logging.Int("molds", summary.TotalMolds),
		logging.Float64("utilization", summary.Utilization),
	)
	return plan, nil
}

// planGroup packs one width group and expands its patterns into plan rows.
// The group's block queue is a private copy, so groups may run concurrently.
func (p *Planner) planGroup(g model.WidthGroup, blocks []model.BlockEntry) (groupResult, error) {
	s := p.Settings

	patterns, err := Pack(g.RowsByLength(), s.UnitLength)
	if err != nil {
		return groupResult{}, err
	}

	rowsPerUnit := s.UnitWidth / g.Width
	queue := newBlockQueue(blocks, s.UnitWidth)
	folding := !queue.empty()
	panelAtUnitWidth := false
	for _, r := range g.Records {
		if r.Type == model.ProductPanel && r.Length == s.UnitWidth {
			panelAtUnitWidth = true
		}
	}

	var rows []model.PlanRow
	for i := range patterns {
		pat := &patterns[i]
		pat.Index = i
		pat.Width = g.Width

		for _, c := range pat.Cuts {
			base := model.PlanRow{
				PatternIndex:     i,
				ProductType:      model.ProductPanel,
				Length:           c.Length,
				Width:            g.Width,
				Height:           s.FixedHeight,
				RowsPerUnitWidth: rowsPerUnit,
				RowCount:         c.Rows,
				MoldCount:        pat.MoldCount,
				Quantity:         rowsPerUnit * c.Rows * pat.MoldCount,
			}

			if !folding || c.Length != s.UnitWidth {
				attachByProduct(&base, s)
				rows = append(rows, base)
				continue
			}

			// The remnant strip runs the whole slot, so only the first row
			// split from it carries the by-product.
			attachByProduct(&base, s)
			split := make([]model.PlanRow, 0, 2)
			draws, left := queue.draw(base.Quantity)
			for _, d := range draws {
				row := base
				row.ProductType = model.ProductBlock
				row.Length = d.Length
				row.Height = d.Height
				row.Quantity = d.Quantity
				split = append(split, row)
			}
			if left > 0 && panelAtUnitWidth {
				row := base
				row.Quantity = left
				split = append(split, row)
			}
			for j := 1; j < len(split); j++ {
				split[j].ByProductDims = nil
				split[j].ByProductQuantity = nil
			}
			rows = append(rows, split...)
		}
	}

	if !queue.empty() {
		return groupResult{}, model.NewDemandExhaustionError("block demand left after packing").
			WithDetail(fmt.Sprintf("%d blocks at width %d", queue.remaining(), g.Width))
	}

	p.log.Debug("width group packed",
		logging.Int("width", g.Width),
		logging.Int("records", len(g.Records)),
		logging.Int("patterns", len(patterns)),
		logging.Bool("folded_blocks", folding),
	)
	return groupResult{patterns: patterns, rows: rows}, nil
}

// assemblePlan concatenates group results in partition order and assigns
// plan-wide 1-based pattern indices.
func assemblePlan(plan model.Plan, results []groupResult) model.Plan {
	offset := 0
	for _, r := range results {
		for _, pat := range r.patterns {
			pat.Index += offset + 1
			plan.Patterns = append(plan.Patterns, pat)
		}
		for _, row := range r.rows {
			row.PatternIndex += offset + 1
			plan.Rows = append(plan.Rows, row)
		}
		offset += len(r.patterns)
	}
	return plan
}
