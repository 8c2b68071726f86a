package hse

import (
	"context"
	"strings"

	"unitables/internal/extract"
	"unitables/pkg/htmlutil"
	"unitables/pkg/tabular"
)

var FAQColumns = []string{"question", "answer"}

var (
	// the page has several of these sections, the FAQ is the second one
	faqSection  = htmlutil.Tag("div").WithClass("builder-section", "builder-section--bottom0")
	faqQuestion = htmlutil.Tag("h3").WithClass("foldable_control")
	faqAnswer   = htmlutil.Tag("div").WithClass("incut", "foldable_block__item")
	faqPara     = htmlutil.Tag("p")
)

type FAQResult struct {
	Table     *tabular.Table
	Questions int
	Answers   int
	complete  bool
}

// Truncated is true when the number of questions and answers differ, in which
// case the table only covers the shorter of the two.
func (r FAQResult) Truncated() bool {
	return !r.complete
}

func faqAnswerText(block htmlutil.Node) string {
	paragraphs := block.FindAll(faqPara)
	texts := make([]string, len(paragraphs))
	for i, p := range paragraphs {
		texts[i] = p.Text()
	}
	return strings.Join(texts, "\n")
}

// ParseFAQ reads the housing FAQ. Questions and answers are separate lists on
// the page with nothing linking them but their order, so the i-th question
// gets the i-th answer. Extra questions or answers are ignored. A question
// that appears twice keeps its first position and its last answer.
func ParseFAQ(doc htmlutil.Tree) (FAQResult, error) {
	section, err := extract.Require(doc, faqSection, 1)
	if err != nil {
		return FAQResult{}, err
	}

	questions := section.FindAll(faqQuestion)
	answers := section.FindAll(faqAnswer)
	pairs, complete := extract.Zip(questions, answers)

	table := tabular.New(FAQColumns...)
	answerCol := table.Column("answer")
	rowOf := make(map[string]int, len(pairs))
	for _, p := range pairs {
		question := p.Left.Text()
		answer := tabular.String(faqAnswerText(p.Right))

		if row, seen := rowOf[question]; seen {
			table.Rows[row][answerCol] = answer
			continue
		}
		rowOf[question] = table.Len()
		err := table.Append(tabular.String(question), answer)
		if err != nil {
			return FAQResult{}, err
		}
	}

	return FAQResult{
		Table:     table,
		Questions: len(questions),
		Answers:   len(answers),
		complete:  complete,
	}, nil
}

// FAQ fetches url (or the configured housing page if empty) and reads the
// FAQ. A question/answer count mismatch is reported as a warning but is not an
// error.
func (s Scraper) FAQ(ctx context.Context, url string) (result FAQResult, err error) {
	ctx, span := tracer.Start(ctx, "scraper:FAQ")
	defer func() { endSpan(span, err) }()

	doc, err := s.document(ctx, orDefault(url, s.urls.FAQ))
	if err != nil {
		s.tel.ReportBroken(report_scraper_faq, err)
		return FAQResult{}, err
	}
	result, err = ParseFAQ(doc)
	if err != nil {
		s.tel.ReportBroken(report_scraper_faq, err)
		return FAQResult{}, err
	}

	if result.Truncated() {
		s.tel.ReportWarning(report_scraper_faq, "question and answer counts differ", result.Questions, result.Answers)
	}
	s.tel.ReportCount(report_scraper_faq, int64(result.Table.Len()))
	return result, nil
}
