package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wichananm65/assoc-rules/internal/dataset"
	"github.com/wichananm65/assoc-rules/internal/presenter"
	"github.com/wichananm65/assoc-rules/internal/rule"
)

type mineOptions struct {
	file   string
	params rule.Params
	format string
	top    bool
}

func newMineCommand() *cobra.Command {
	opts := mineOptions{params: rule.DefaultParams()}

	cmd := &cobra.Command{
		Use:   "mine",
		Short: "Generate association rules from a CSV file",
		Long: `Read a one-hot CSV transaction table (one column per item, one row per
transaction), run Apriori and print the rules that pass all three thresholds.

Status lines go to stderr so json and csv output can be piped.`,
		Example: `  arules mine --file transactions.csv
  arules mine --file transactions.csv --min-support 0.05 --min-lift 1.0 --format md --top`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMine(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "", "CSV transaction table")
	f.Float64Var(&opts.params.MinSupport, "min-support", rule.SupportRange.Default, "minimum itemset support")
	f.Float64Var(&opts.params.MinConfidence, "min-confidence", rule.ConfidenceRange.Default, "minimum rule confidence")
	f.Float64Var(&opts.params.MinLift, "min-lift", rule.LiftRange.Default, "rules must have lift above this")
	f.IntVar(&opts.params.MaxLen, "max-len", 0, "largest itemset size to mine (0 for no limit)")
	f.StringVarP(&opts.format, "format", "o", presenter.FormatTable, "output format: table, json, csv, md")
	f.BoolVar(&opts.top, "top", false, "also print the top rules by lift (not with csv)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

var errTopWithCSV = errors.New("--top cannot be combined with --format csv")

// mineJSON is the single document written for --format json.
type mineJSON struct {
	Rules []map[string]string `json:"rules"`
	Top   []map[string]string `json:"top,omitempty"`
}

func runMine(cmd *cobra.Command, opts mineOptions) error {
	out, status := cmd.OutOrStdout(), cmd.ErrOrStderr()
	if opts.top && opts.format == presenter.FormatCSV {
		return errTopWithCSV
	}

	d, err := loadDataset(opts.file)
	if err != nil {
		return err
	}

	v := dataset.Validate(d)
	fmt.Fprintf(status, "%s: %d transactions, %d items\n", d.Name, d.Len(), len(d.Items))
	fmt.Fprintln(status, v.Message)
	for _, is := range v.Issues {
		fmt.Fprintf(status, "  row %d, column %s: %q\n", is.Row, is.Column, is.Value)
	}

	res, err := rule.Generate(d, opts.params)
	if err != nil {
		return err
	}
	fmt.Fprintln(status, res.Message())
	if res.Empty() {
		return nil
	}

	rules := presenter.RulesTable(res.Rules)
	var top *presenter.TableData
	if opts.top {
		top = presenter.RulesTable(presenter.TopRulesByLift(res.Rules, presenter.TopN))
		top.Title = "Top Rules by Lift"
	}

	if opts.format == presenter.FormatJSON {
		doc := mineJSON{Rules: presenter.Records(rules)}
		if top != nil {
			doc.Top = presenter.Records(top)
		}
		return presenter.WriteJSON(out, doc)
	}

	if err := presenter.RenderTable(out, rules, opts.format); err != nil {
		return err
	}
	if top != nil {
		fmt.Fprintln(status, top.Title)
		return presenter.RenderTable(out, top, opts.format)
	}
	return nil
}

func loadDataset(path string) (*dataset.Dataset, error) {
	name := filepath.Base(path)
	if err := dataset.CheckFilename(name); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	items, rows, err := dataset.ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return &dataset.Dataset{Name: name, Items: items, Rows: rows}, nil
}
