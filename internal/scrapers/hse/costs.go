package hse

import (
	"context"
	"strings"

	"unitables/internal/extract"
	"unitables/pkg/htmlutil"
	"unitables/pkg/tabular"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CostTable selects which of the cost tables on the fees page is read.
type CostTable int

const (
	// FeesTable is the first table on the page: tuition per programme.
	FeesTable CostTable = iota
	// LivingTable is the last table on the page: living costs.
	LivingTable
)

func (c CostTable) String() string {
	switch c {
	case FeesTable:
		return "fees"
	case LivingTable:
		return "living"
	}
	return "unknown"
}

// ordinal is the index of the table among all tables of the page.
func (c CostTable) ordinal() int {
	if c == LivingTable {
		return -1
	}
	return 0
}

func ParseCostTable(which string) (CostTable, error) {
	switch which {
	case "fees":
		return FeesTable, nil
	case "living":
		return LivingTable, nil
	}
	return 0, extract.InvalidArgument(`unknown cost table %q, expected "fees" or "living"`, which)
}

var CostColumns = []string{"Programme", "Tuition (per year)"}

// the page renders this section heading as a regular data cell
const costSectionLabel = "Language Programmes"

// costMarkers show up in the cost text, never in a programme name.
var costMarkers = []string{"RUB", "USD", "request"}

// keepCostCell drops the empty placeholders at even positions and the
// mis-emitted section label.
func keepCostCell(c extract.Cell) bool {
	if c.Index%2 == 0 && c.Text == "" {
		return false
	}
	return c.Text != costSectionLabel
}

func isCostText(text string) bool {
	for _, marker := range costMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// ParseCosts reads the selected cost table as (programme, cost) pairs.
//
// The data cells are flattened, filtered and then read as alternating name and
// value. Some rows have their cells the other way around, those are detected by
// a currency/"request" marker on the name side and swapped back.
func ParseCosts(doc htmlutil.Tree, which CostTable) (*tabular.Table, error) {
	table, err := extract.Require(doc, htmlutil.Tag("table"), which.ordinal())
	if err != nil {
		return nil, err
	}
	body, err := extract.Require(table, htmlutil.Tag("tbody"), 0)
	if err != nil {
		return nil, err
	}

	cells := extract.Filter(
		extract.Cells(body.FindAll(htmlutil.Tag("td"))),
		keepCostCell,
	)

	out := tabular.New(CostColumns...)
	for _, pair := range extract.Pairs(cells) {
		name, value := pair.Name.Text, pair.Value.Text
		if isCostText(name) {
			name, value = value, name
		}
		err := out.Append(tabular.String(name), tabular.String(value))
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Costs fetches url (or the configured costs page if empty) and reads the
// selected table. `which` must be "fees" or "living", anything else fails with
// extract.ErrInvalidArgument before any request is made.
func (s Scraper) Costs(ctx context.Context, which, url string) (table *tabular.Table, err error) {
	ctx, span := tracer.Start(ctx, "scraper:Costs", trace.WithAttributes(
		attribute.String("which", which),
	))
	defer func() { endSpan(span, err) }()

	selected, err := ParseCostTable(which)
	if err != nil {
		return nil, err
	}

	doc, err := s.document(ctx, orDefault(url, s.urls.Costs))
	if err != nil {
		s.tel.ReportBroken(report_scraper_costs, err)
		return nil, err
	}
	table, err = ParseCosts(doc, selected)
	if err != nil {
		s.tel.ReportBroken(report_scraper_costs, err)
		return nil, err
	}

	s.tel.ReportCount(report_scraper_costs, int64(table.Len()))
	return table, nil
}
