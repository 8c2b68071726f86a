package hse

import (
	"context"
	"testing"

	"unitables/internal/extract"

	"github.com/stretchr/testify/require"
)

func faqMarkup(section string) string {
	return `<div class="builder-section builder-section--bottom0"></div>
		<div class="builder-section builder-section--bottom0">` + section + `</div>`
}

func TestParseFAQ(t *testing.T) {
	result, err := ParseFAQ(parseFixture(t, "faq.html"))
	require.NoError(t, err)
	require.False(t, result.Truncated())
	require.Equal(t, FAQColumns, result.Table.Columns)
	require.Equal(t, [][]string{
		{"How do I apply for a dormitory?", "p1\np2"},
		{"When can I move in?", "p1\np2"},
	}, rows(result.Table))
}

func TestParseFAQTruncates(t *testing.T) {
	doc := parseMarkup(t, faqMarkup(`
		<h3 class="foldable_control">Q1</h3>
		<h3 class="foldable_control">Q2</h3>
		<h3 class="foldable_control">Q3</h3>
		<div class="incut foldable_block__item"><p>A1</p></div>
		<div class="incut foldable_block__item"><p>A2</p></div>
	`))

	result, err := ParseFAQ(doc)
	require.NoError(t, err)
	require.True(t, result.Truncated())
	require.Equal(t, 3, result.Questions)
	require.Equal(t, 2, result.Answers)
	require.Equal(t, [][]string{{"Q1", "A1"}, {"Q2", "A2"}}, rows(result.Table))
}

func TestParseFAQExtraAnswers(t *testing.T) {
	doc := parseMarkup(t, faqMarkup(`
		<h3 class="foldable_control">Q1</h3>
		<div class="incut foldable_block__item"><p>A1</p></div>
		<div class="incut foldable_block__item"><p>A2</p></div>
	`))

	result, err := ParseFAQ(doc)
	require.NoError(t, err)
	require.True(t, result.Truncated())
	require.Equal(t, [][]string{{"Q1", "A1"}}, rows(result.Table))
}

func TestParseFAQRepeatedQuestion(t *testing.T) {
	doc := parseMarkup(t, faqMarkup(`
		<h3 class="foldable_control">Q1</h3>
		<h3 class="foldable_control">Q2</h3>
		<h3 class="foldable_control">Q1</h3>
		<div class="incut foldable_block__item"><p>old</p></div>
		<div class="incut foldable_block__item"><p>A2</p></div>
		<div class="incut foldable_block__item"><p>new</p></div>
	`))

	result, err := ParseFAQ(doc)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"Q1", "new"}, {"Q2", "A2"}}, rows(result.Table))
}

func TestParseFAQEmptyAnswer(t *testing.T) {
	doc := parseMarkup(t, faqMarkup(`
		<h3 class="foldable_control">Q1</h3>
		<div class="incut foldable_block__item">no paragraphs</div>
	`))

	result, err := ParseFAQ(doc)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"Q1", ""}}, rows(result.Table))
}

func TestParseFAQMissingSection(t *testing.T) {
	doc := parseMarkup(t, `<div class="builder-section builder-section--bottom0"></div>`)
	_, err := ParseFAQ(doc)
	require.ErrorIs(t, err, extract.ErrIndexIntegrity)
}

func TestFAQTruncationWarning(t *testing.T) {
	scraper, fetcher, rec := newTestScraper(t)
	fetcher.pages["https://example.com/sho"] = faqMarkup(`
		<h3 class="foldable_control">Q1</h3>
		<h3 class="foldable_control">Q2</h3>
		<div class="incut foldable_block__item"><p>A1</p></div>
	`)

	result, err := scraper.FAQ(context.Background(), "https://example.com/sho")
	require.NoError(t, err)
	require.Equal(t, 1, result.Table.Len())
	require.Len(t, rec.Reports("warning"), 1)

	_, err = scraper.FAQ(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, rec.Reports("warning"), 1)
	require.Equal(t, 2, fetcher.calls)
}
