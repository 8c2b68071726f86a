package hse

import (
	"context"
	"fmt"
	"strings"

	"unitables/internal/extract"
	"unitables/pkg/htmlutil"
	"unitables/pkg/tabular"
)

type DegreeType string

const (
	Bachelors DegreeType = "bachelors"
	Masters   DegreeType = "masters"
	Unknown   DegreeType = "unknown"
)

// ClassifyLink guesses the degree type from a programme link.
func ClassifyLink(link string) DegreeType {
	switch {
	case strings.Contains(link, "/ba/"):
		return Bachelors
	case strings.Contains(link, "/ma/"), strings.Contains(link, "mag-"):
		return Masters
	}
	return Unknown
}

type Programme struct {
	Programme  string
	Faculty    string
	Link       string
	Type       DegreeType
	Department string
	Location   string
	Duration   string
	Schedule   string
	Language   string
}

var ProgrammeColumns = []string{
	"programme", "faculty", "link", "type", "department",
	"location", "duration", "schedule", "language",
}

func (p Programme) record() tabular.Record {
	return tabular.Record{
		tabular.String(p.Programme),
		tabular.String(p.Faculty),
		tabular.String(p.Link),
		tabular.String(string(p.Type)),
		tabular.String(p.Department),
		tabular.String(p.Location),
		tabular.String(p.Duration),
		tabular.String(p.Schedule),
		tabular.String(p.Language),
	}
}

var (
	programmeRoot  = htmlutil.Tag("div").WithID("education-programs__list")
	programmeGroup = htmlutil.Tag("div").WithClass("edu-programm__group")
	programmeUnit  = htmlutil.Tag("div").WithClass("edu-programm__unit")
	programmeItem  = htmlutil.Tag("div").WithClass("b-row", "edu-programm__item")
	programmeLink  = htmlutil.Tag("a").WithClass("link")

	programmeHeader     = htmlutil.Tag("h3")
	programmeDepartment = htmlutil.Tag("span").WithClass("grey")
	programmeDuration   = htmlutil.Tag("div").WithClass("edu-programm__data", "u-accent")
	programmeSchedule   = htmlutil.Tag("div").WithClass("edu-programm__edu_offline")
	programmeLanguage   = htmlutil.Tag("div").WithClass("b-row__item", "b-row__item--4", "b-row__item--t8", "b-row__item--places")
)

// ProgrammeResult is the catalog table plus everything that had to be
// skipped to build it.
type ProgrammeResult struct {
	Table    *tabular.Table
	Failures []extract.ItemFailure
}

func requireText(tree htmlutil.Tree, q htmlutil.Query) (string, error) {
	n, ok := tree.FindFirst(q)
	if !ok {
		return "", fmt.Errorf("missing %s", q)
	}
	return n.Text(), nil
}

// groupLocations collects the location labels of a group. Units that do not
// start with an element (stray text, whitespace) are not locations.
func groupLocations(group htmlutil.Node) []string {
	var locations []string
	for _, unit := range group.FindAll(programmeUnit) {
		children := unit.Children()
		if len(children) == 0 || !children[0].IsElement() {
			continue
		}
		locations = append(locations, children[0].Text())
	}
	return locations
}

func parseProgramme(group, item htmlutil.Node, location string) (Programme, error) {
	name, err := requireText(group, programmeHeader)
	if err != nil {
		return Programme{}, err
	}

	// the programme link is the first link of the group, shared by all its items
	groupLink, ok := group.FindFirst(programmeLink)
	if !ok {
		return Programme{}, fmt.Errorf("missing %s", programmeLink)
	}
	link, err := htmlutil.GetAnchor(groupLink)
	if err != nil {
		return Programme{}, err
	}

	faculty, err := requireText(item, programmeLink)
	if err != nil {
		return Programme{}, err
	}
	department, err := requireText(item, programmeDepartment)
	if err != nil {
		return Programme{}, err
	}
	duration, err := requireText(item, programmeDuration)
	if err != nil {
		return Programme{}, err
	}
	schedule, err := requireText(item, programmeSchedule)
	if err != nil {
		return Programme{}, err
	}
	language, err := requireText(item, programmeLanguage)
	if err != nil {
		return Programme{}, err
	}

	return Programme{
		Programme:  name,
		Faculty:    faculty,
		Link:       link.Href,
		Type:       ClassifyLink(link.Href),
		Department: department,
		Location:   location,
		Duration:   duration,
		Schedule:   schedule,
		Language:   language,
	}, nil
}

// parseGroup extracts every item of a group. The i-th item is located at the
// i-th location label, if the counts differ the whole group fails.
func parseGroup(groupIdx int, group htmlutil.Node) []extract.Outcome[Programme] {
	items := group.FindAll(programmeItem)
	correlated, err := extract.Correlate(items, groupLocations(group))
	if err != nil {
		return []extract.Outcome[Programme]{
			extract.Failed[Programme](groupIdx, -1, fmt.Errorf("items and locations: %w", err)),
		}
	}

	outcomes := make([]extract.Outcome[Programme], len(correlated))
	for i, c := range correlated {
		programme, err := parseProgramme(group, c.Left, c.Right)
		if err != nil {
			outcomes[i] = extract.Failed[Programme](groupIdx, c.Index, err)
			continue
		}
		outcomes[i] = extract.Success(programme)
	}
	return outcomes
}

// ParseProgrammes reads the programme catalog. A missing catalog container
// fails the whole call, anything that goes wrong inside a group only skips
// that group or item and is listed in the result's failures.
func ParseProgrammes(doc htmlutil.Tree) (ProgrammeResult, error) {
	root, err := extract.Require(doc, programmeRoot, 0)
	if err != nil {
		return ProgrammeResult{}, err
	}

	var outcomes []extract.Outcome[Programme]
	for i, group := range root.FindAll(programmeGroup) {
		outcomes = append(outcomes, parseGroup(i, group)...)
	}
	programmes, failures := extract.Partition(outcomes)

	table := tabular.New(ProgrammeColumns...)
	for _, p := range programmes {
		err := table.Append(p.record()...)
		if err != nil {
			return ProgrammeResult{}, err
		}
	}

	return ProgrammeResult{
		Table:    table,
		Failures: failures,
	}, nil
}

// Programmes fetches url (or the configured catalog page if empty) and reads
// the programme catalog. Skipped items are reported as warnings and returned
// in the result.
func (s Scraper) Programmes(ctx context.Context, url string) (result ProgrammeResult, err error) {
	ctx, span := tracer.Start(ctx, "scraper:Programmes")
	defer func() { endSpan(span, err) }()

	doc, err := s.document(ctx, orDefault(url, s.urls.Programmes))
	if err != nil {
		s.tel.ReportBroken(report_scraper_programmes, err)
		return ProgrammeResult{}, err
	}
	result, err = ParseProgrammes(doc)
	if err != nil {
		s.tel.ReportBroken(report_scraper_programmes, err)
		return ProgrammeResult{}, err
	}

	for _, failure := range result.Failures {
		s.tel.ReportWarning(report_scraper_programmes, failure)
	}
	s.tel.ReportCount(report_scraper_programmes, int64(result.Table.Len()))
	return result, nil
}
