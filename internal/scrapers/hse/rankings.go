package hse

import (
	"context"

	"unitables/internal/extract"
	"unitables/pkg/htmlutil"
	"unitables/pkg/tabular"
)

const (
	ColumnRanking     = "ranking"
	ColumnSubject     = "subject"
	ColumnPlaceWorld  = "place_world"
	ColumnPlaceRussia = "place_russia"
)

var RankingColumns = []string{ColumnRanking, ColumnSubject, ColumnPlaceWorld, ColumnPlaceRussia}

var rankingTable = htmlutil.Tag("table").WithClass("data", "rate_top", "smaller")

// rankingRow reads a single row of the results table.
//
//   - 4 cells: ranking, subject, world place, russia place.
//   - 3 cells: subject, world place, russia place, the ranking is the text of the
//     first link in the row (if any).
//   - anything else is a row without data.
func rankingRow(tr htmlutil.Node) tabular.Record {
	cells := tr.FindAll(htmlutil.Tag("td"))

	switch len(cells) {
	case 3:
		ranking := tabular.Null
		if link, ok := tr.FindFirst(htmlutil.Tag("a")); ok {
			ranking = tabular.String(link.Text())
		}
		return tabular.Record{
			ranking,
			tabular.String(cells[0].Text()),
			tabular.String(cells[1].Text()),
			tabular.String(cells[2].Text()),
		}
	case 4:
		// 4 cell rows carry non-breaking spaces
		return tabular.Record{
			tabular.String(cells[0].NormalizedText()),
			tabular.String(cells[1].NormalizedText()),
			tabular.String(cells[2].NormalizedText()),
			tabular.String(cells[3].NormalizedText()),
		}
	}
	return tabular.Record{tabular.Null, tabular.Null, tabular.Null, tabular.Null}
}

// ParseRankings reads the subject rankings table.
//
// Category header rows show up as a subject row whose subject is the ranking
// name itself, their subject is dropped. The ranking name is then carried down
// to the subject rows under it and rows repeated verbatim are removed.
func ParseRankings(doc htmlutil.Tree) (*tabular.Table, error) {
	table, err := extract.Require(doc, rankingTable, 0)
	if err != nil {
		return nil, err
	}
	body, err := extract.Require(table, htmlutil.Tag("tbody"), 0)
	if err != nil {
		return nil, err
	}

	out := tabular.New(RankingColumns...)
	ranking := out.Column(ColumnRanking)
	subject := out.Column(ColumnSubject)

	for _, tr := range body.FindAll(htmlutil.Tag("tr")) {
		row := rankingRow(tr)
		if row[ranking].Valid && row[ranking] == row[subject] {
			row[subject] = tabular.Null
		}
		err := out.Append(row...)
		if err != nil {
			return nil, err
		}
	}

	out.ForwardFill(ColumnRanking)
	out.DropDuplicates()
	return out, nil
}

// Rankings fetches url (or the configured rankings page if empty) and reads
// the rankings table.
func (s Scraper) Rankings(ctx context.Context, url string) (table *tabular.Table, err error) {
	ctx, span := tracer.Start(ctx, "scraper:Rankings")
	defer func() { endSpan(span, err) }()

	doc, err := s.document(ctx, orDefault(url, s.urls.Rankings))
	if err != nil {
		s.tel.ReportBroken(report_scraper_rankings, err)
		return nil, err
	}
	table, err = ParseRankings(doc)
	if err != nil {
		s.tel.ReportBroken(report_scraper_rankings, err)
		return nil, err
	}

	s.tel.ReportCount(report_scraper_rankings, int64(table.Len()))
	return table, nil
}
