package rule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wichananm65/assoc-rules/internal/dataset"
	"github.com/wichananm65/assoc-rules/internal/mining"
)

// Generate mines d with p: frequent itemsets at MinSupport, rules with
// confidence at least MinConfidence, then only rules with lift strictly above
// MinLift. Rule order is deterministic for a given table and p.
func Generate(d *dataset.Dataset, p Params) (Result, error) {
	if errs := p.Validate(); len(errs) > 0 {
		return Result{}, &ValidationError{Fields: errs}
	}

	res := Result{Params: p, Transactions: d.Len(), Rules: []mining.Rule{}}

	sets, err := mining.FrequentItemsets(d.Transactions(), d.Items, p.MinSupport, mining.WithMaxLen(p.MaxLen))
	if err != nil {
		return Result{}, fmt.Errorf("frequent itemsets: %w", err)
	}
	res.Itemsets = len(sets)
	if len(sets) == 0 {
		return res, nil
	}

	rules, err := mining.AssociationRules(sets, mining.MetricConfidence, p.MinConfidence)
	if err != nil {
		return Result{}, fmt.Errorf("association rules: %w", err)
	}
	for _, r := range rules {
		if r.Lift > p.MinLift {
			res.Rules = append(res.Rules, r)
		}
	}
	return res, nil
}

// DatasetGetter loads stored datasets.
type DatasetGetter interface {
	GetByID(ctx context.Context, id string) (*dataset.Dataset, error)
}

type Service struct {
	datasets DatasetGetter
}

func NewService(datasets DatasetGetter) *Service {
	return &Service{datasets: datasets}
}

// Generate loads the dataset by id and runs Generate on it.
func (s *Service) Generate(ctx context.Context, datasetID string, p Params) (Result, error) {
	d, err := s.datasets.GetByID(ctx, datasetID)
	if err != nil {
		return Result{}, err
	}
	return s.GenerateFor(ctx, d, p)
}

// GenerateFor runs Generate on an already loaded dataset and logs the outcome.
func (s *Service) GenerateFor(ctx context.Context, d *dataset.Dataset, p Params) (Result, error) {
	start := time.Now()
	res, err := Generate(d, p)
	if err != nil {
		return Result{}, err
	}
	slog.InfoContext(ctx, "rules generated",
		"dataset_id", d.ID,
		"min_support", p.MinSupport,
		"min_confidence", p.MinConfidence,
		"min_lift", p.MinLift,
		"max_len", p.MaxLen,
		"itemsets", res.Itemsets,
		"rules", len(res.Rules),
		"duration", time.Since(start),
	)
	return res, nil
}
