// Package fixture generates a synthetic intent-data export: the seven CSV
// files the audit expects, at configurable sizes, with deliberate dirt
// (orphan references, null gaps, one mistyped column) so every audit
// finding has something to find.
package fixture

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"csvaudit/internal/config"
)

// Options sizes the generated export. Zero values mean the defaults.
type Options struct {
	Seed      int64
	Companies int // default 40
	Contacts  int // default 120
	Sets      int // keyword sets, default 5
	Weeks     int // weekly intent windows, default 4

	// OrphanPct is the percentage of child references pointing at no
	// parent. Zero keeps every reference valid.
	OrphanPct int

	// NullPct is the percentage of nullable cells left empty. It also
	// seeds a handful of non-numeric values into one numeric column so
	// the type checker has work.
	NullPct int
}

func (o Options) withDefaults() Options {
	if o.Companies <= 0 {
		o.Companies = 40
	}
	if o.Contacts <= 0 {
		o.Contacts = 120
	}
	if o.Sets <= 0 {
		o.Sets = 5
	}
	if o.Weeks <= 0 {
		o.Weeks = 4
	}
	return o
}

var weekZero = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

const partitionDate = "2024-06-01"

var censusDivisions = []string{
	"New England", "Middle Atlantic", "East North Central", "West North Central",
	"South Atlantic", "East South Central", "West South Central", "Mountain", "Pacific",
}

var intentStrengths = []string{"Low", "Medium", "High"}

// Generate writes the export into dir and returns the file names in write
// order. The same seed and options always produce the same bytes.
func Generate(dir string, opts Options) ([]string, error) {
	opts = opts.withDefaults()
	f := gofakeit.New(opts.Seed)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create fixture directory %s: %w", dir, err)
	}

	g := &generator{f: f, opts: opts}
	g.build()

	files := []struct {
		name string
		rows [][]string
	}{
		{config.FileKeywordSets, g.keywordSets},
		{config.FileKeywordSetKeywords, g.keywords},
		{config.FileCompanies, g.companies},
		{config.FileCompaniesFull, g.companiesFull},
		{config.FileContacts, g.contacts},
		{config.FileIntentGeo, g.intentGeo},
		{config.FileIntentScores, g.intentScores},
	}

	var written []string
	for _, file := range files {
		if err := writeCSV(filepath.Join(dir, file.name), file.rows); err != nil {
			return written, err
		}
		written = append(written, file.name)
	}
	return written, nil
}

type generator struct {
	f    *gofakeit.Faker
	opts Options

	companyIDs    []int
	employmentIDs []int
	setIDs        []int
	keywordBySet  map[int][]string

	keywordSets   [][]string
	keywords      [][]string
	companies     [][]string
	companiesFull [][]string
	contacts      [][]string
	intentGeo     [][]string
	intentScores  [][]string
}

func (g *generator) build() {
	g.buildKeywordSets()
	g.buildCompanies()
	g.buildContacts()
	g.buildIntentGeo()
	g.buildIntentScores()
}

// dirty reports whether this cell should carry the configured dirt.
func (g *generator) dirty(pct int) bool {
	if pct <= 0 {
		return false
	}
	return g.f.Number(1, 100) <= pct
}

// orphanID returns an identifier guaranteed to be outside the valid range.
func (g *generator) orphanID(max int) int {
	return max + g.f.Number(1000, 9999)
}

func (g *generator) buildKeywordSets() {
	g.keywordSets = [][]string{{"id", "name", "competitive"}}
	g.keywords = [][]string{{"keyword_set_id", "keyword"}}
	g.keywordBySet = make(map[int][]string)

	for i := 0; i < g.opts.Sets; i++ {
		id := i + 1
		g.setIDs = append(g.setIDs, id)
		g.keywordSets = append(g.keywordSets, []string{
			strconv.Itoa(id),
			g.f.BuzzWord() + " tracking",
			strconv.FormatBool(g.f.Bool()),
		})

		perSet := g.f.Number(4, 8)
		for k := 0; k < perSet; k++ {
			word := g.f.BuzzWord()
			g.keywordBySet[id] = append(g.keywordBySet[id], word)
			g.keywords = append(g.keywords, []string{strconv.Itoa(id), word})
		}
	}
}

func (g *generator) buildCompanies() {
	g.companies = [][]string{{
		"company_id", "company_name", "domain", "employees", "revenue",
		"isroot", "best_domain", "parent_id", "ultimate_parent_id",
	}}
	g.companiesFull = [][]string{{
		"company_id", "company_name", "employees", "revenue", "isroot", "sic",
		"parent_id", "ultimate_parent_id",
	}}

	maxID := 100 + g.opts.Companies
	for i := 0; i < g.opts.Companies; i++ {
		id := 100 + i
		g.companyIDs = append(g.companyIDs, id)
		name := g.f.Company()
		employees := strconv.FormatFloat(float64(g.f.Number(10, 50000)), 'f', 1, 64)
		revenue := strconv.FormatFloat(g.f.Float64Range(1e5, 5e9), 'f', 2, 64)
		isRoot := i%7 == 0

		parent, ultimate := g.hierarchy(i, id, maxID, isRoot)

		if g.dirty(g.opts.NullPct) {
			employees = ""
		}
		if g.dirty(g.opts.NullPct) {
			revenue = ""
		}

		g.companies = append(g.companies, []string{
			strconv.Itoa(id),
			name,
			g.f.DomainName(),
			employees,
			revenue,
			boolAsInt(isRoot),
			strconv.FormatBool(g.f.Bool()),
			parent,
			ultimate,
		})

		// The full export repeats the company with looser typing: isroot
		// and sic arrive as floats, and employees picks up stray text.
		fullEmployees := employees
		if g.opts.NullPct > 0 && (i == 1 || g.dirty(g.opts.NullPct/2)) {
			fullEmployees = "n/a"
		}
		g.companiesFull = append(g.companiesFull, []string{
			strconv.Itoa(id),
			name,
			fullEmployees,
			revenue,
			boolAsFloat(isRoot),
			strconv.FormatFloat(float64(g.f.Number(100, 9999)), 'f', 1, 64),
			parent,
			ultimate,
		})
	}
}

// hierarchy picks parent pointers for one company. Roots have none; the
// rest point at an earlier company, or at nothing when orphan dirt hits.
func (g *generator) hierarchy(i, id, maxID int, isRoot bool) (parent, ultimate string) {
	if isRoot || i == 0 {
		return "", ""
	}

	parentID := g.companyIDs[g.f.Number(0, i-1)]
	if g.dirty(g.opts.OrphanPct) {
		parentID = g.orphanID(maxID)
	}
	ultimateID := g.companyIDs[0]
	if g.dirty(g.opts.OrphanPct) {
		ultimateID = g.orphanID(maxID)
	}
	return strconv.Itoa(parentID), strconv.Itoa(ultimateID)
}

func (g *generator) buildContacts() {
	g.contacts = [][]string{{
		"executive_id", "employment_id", "company_id", "first_name", "last_name",
		"title", "revenue_usd", "employees", "sic_us", "naics", "equifax_id",
	}}

	maxCompany := 100 + g.opts.Companies
	for i := 0; i < g.opts.Contacts; i++ {
		employmentID := 1000 + i
		g.employmentIDs = append(g.employmentIDs, employmentID)

		companyID := g.companyIDs[g.f.Number(0, len(g.companyIDs)-1)]
		if g.dirty(g.opts.OrphanPct) {
			companyID = g.orphanID(maxCompany)
		}

		row := []string{
			strconv.Itoa(5000 + i),
			strconv.Itoa(employmentID),
			strconv.Itoa(companyID),
			g.f.FirstName(),
			g.f.LastName(),
			g.f.JobTitle(),
			strconv.FormatFloat(g.f.Float64Range(1e5, 1e9), 'f', 2, 64),
			strconv.FormatFloat(float64(g.f.Number(10, 50000)), 'f', 1, 64),
			strconv.FormatFloat(float64(g.f.Number(100, 9999)), 'f', 1, 64),
			strconv.FormatFloat(float64(g.f.Number(10000, 999999)), 'f', 1, 64),
			strconv.FormatFloat(float64(g.f.Number(1, 1e7)), 'f', 1, 64),
		}
		// Firmographics are the gappiest part of the real export.
		for _, col := range []int{6, 7, 8, 9, 10} {
			if g.dirty(g.opts.NullPct) {
				row[col] = ""
			}
		}
		g.contacts = append(g.contacts, row)
	}
}

func (g *generator) buildIntentGeo() {
	g.intentGeo = [][]string{{
		"company_id", "domain", "start_date", "end_date", "duration_type",
		"keyword_set_id", "keyword_set", "keyword", "country", "census_division",
		"region", "city", "num_people_researching", "intent_strength", "partition_date",
	}}

	maxCompany := 100 + g.opts.Companies
	for _, companyID := range g.companyIDs {
		for week := 0; week < g.opts.Weeks; week++ {
			if g.f.Number(1, 100) > 60 {
				continue
			}
			start := weekZero.AddDate(0, 0, 7*week)
			end := start.AddDate(0, 0, 6)

			setID := g.setIDs[g.f.Number(0, len(g.setIDs)-1)]
			words := g.keywordBySet[setID]

			rowCompany := companyID
			if g.dirty(g.opts.OrphanPct) {
				rowCompany = g.orphanID(maxCompany)
			}

			g.intentGeo = append(g.intentGeo, []string{
				strconv.Itoa(rowCompany),
				g.f.DomainName(),
				start.Format("2006-01-02"),
				end.Format("2006-01-02"),
				"weekly",
				strconv.Itoa(setID),
				g.f.BuzzWord() + " tracking",
				words[g.f.Number(0, len(words)-1)],
				"United States",
				g.f.RandomString(censusDivisions),
				g.f.State(),
				g.f.City(),
				strconv.Itoa(g.f.Number(1, 40)),
				g.f.RandomString(intentStrengths),
				partitionDate,
			})
		}
	}
}

func (g *generator) buildIntentScores() {
	g.intentScores = [][]string{{
		"dt", "keyword_set_id", "company_id", "employment_id", "intent_score", "partition_date",
	}}

	maxEmployment := 1000 + g.opts.Contacts
	for i, employmentID := range g.employmentIDs {
		companyID := g.companyIDs[g.f.Number(0, len(g.companyIDs)-1)]
		for week := 0; week < 2; week++ {
			dt := weekZero.AddDate(0, 0, 7*((i+week)%g.opts.Weeks))

			rowEmployment := employmentID
			if g.dirty(g.opts.OrphanPct) {
				rowEmployment = g.orphanID(maxEmployment)
			}

			g.intentScores = append(g.intentScores, []string{
				dt.Format("2006-01-02"),
				strconv.Itoa(g.setIDs[g.f.Number(0, len(g.setIDs)-1)]),
				strconv.Itoa(companyID),
				strconv.Itoa(rowEmployment),
				strconv.Itoa(g.f.Number(0, 100)),
				partitionDate,
			})
		}
	}
}

func boolAsInt(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func boolAsFloat(b bool) string {
	if b {
		return "1.0"
	}
	return "0.0"
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
