// Package hse extracts tables from the HSE University public website: tuition
// and living costs, subject rankings, the degree programme catalog and the
// housing FAQ.
//
// Each extractor comes in two halves: a Parse* function that walks an already
// parsed document and a Scraper method that fetches and parses the page first.
package hse

import (
	"context"
	"fmt"

	"unitables/internal/components/assert"
	"unitables/internal/components/fetch"
	"unitables/internal/components/telemetry"
	"unitables/pkg/htmlutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("unitables/scrapers/hse")

const (
	DefaultCostsURL      = "https://admissions.hse.ru/en/graduate-apply/fees"
	DefaultRankingsURL   = "https://strategy.hse.ru/en/rating/"
	DefaultProgrammesURL = "https://www.hse.ru/en/education/magister/"
	DefaultFAQURL        = "https://www.hse.ru/en/sho/"
)

const (
	report_scraper_costs      = "scraper.costs"
	report_scraper_rankings   = "scraper.rankings"
	report_scraper_programmes = "scraper.programmes"
	report_scraper_faq        = "scraper.faq"
)

// URLs are the pages each extractor reads, empty fields fall back to the
// defaults.
type URLs struct {
	Costs      string `json:"costs"`
	Rankings   string `json:"rankings"`
	Programmes string `json:"programmes"`
	FAQ        string `json:"faq"`
}

func (u URLs) withDefaults() URLs {
	if u.Costs == "" {
		u.Costs = DefaultCostsURL
	}
	if u.Rankings == "" {
		u.Rankings = DefaultRankingsURL
	}
	if u.Programmes == "" {
		u.Programmes = DefaultProgrammesURL
	}
	if u.FAQ == "" {
		u.FAQ = DefaultFAQURL
	}
	return u
}

// Scraper runs the extractors against live pages. It holds no per call state,
// every call fetches and parses its own document.
type Scraper struct {
	fetcher fetch.Fetcher
	urls    URLs
	tel     telemetry.API
}

func NewScraper(fetcher fetch.Fetcher, urls URLs, tel telemetry.API) Scraper {
	assert.NotNil(fetcher)
	assert.NotNil(tel)

	urls = urls.withDefaults()
	assert.NotEmptyStr(urls.Costs)
	assert.NotEmptyStr(urls.Rankings)
	assert.NotEmptyStr(urls.Programmes)
	assert.NotEmptyStr(urls.FAQ)

	return Scraper{
		fetcher: fetcher,
		urls:    urls,
		tel:     telemetry.NewScopedAPI("hse_scraper", tel),
	}
}

func (s Scraper) URLs() URLs {
	return s.urls
}

func (s Scraper) document(ctx context.Context, url string) (*htmlutil.Document, error) {
	ctx, span := tracer.Start(ctx, "scraper:document", trace.WithAttributes(
		attribute.String("url", url),
	))
	defer span.End()

	markup, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return nil, err
	}
	doc, err := htmlutil.Parse(markup)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	return doc, nil
}

// orDefault picks url, falling back to def when it is empty.
func orDefault(url, def string) string {
	if url == "" {
		return def
	}
	return url
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
