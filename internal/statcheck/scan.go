package statcheck

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/sells-group/prism/internal/model"
)

// Citation is one reported test statistic as it appears in the text.
type Citation struct {
	Family      model.StatisticFamily
	DF1         *float64
	DF2         *float64
	Value       float64
	ValueText   string
	PComparison string
	ReportedP   *float64
	PText       string
	Raw         string
	Offset      int
}

// CitationScanner finds reported test statistics in document text.
type CitationScanner interface {
	Scan(text string) []Citation
}

const (
	num       = `(\d*\.?\d+)`
	valuePart = `\s*=\s*(-?\s?\d*\.?\d+)`
	pPart     = `\s*[,;]\s*(?:[pP]\s*(<=|>=|≤|≥|[<>=])\s*(\d*\.?\d+(?:[eE]-?\d+)?)|(n\.?s\b\.?))`
)

type familyPattern struct {
	family model.StatisticFamily
	re     *regexp.Regexp
	// dfs lists which record slot each captured df fills, in capture order.
	dfs []dfSlot
}

type dfSlot int

const (
	slotDF1 dfSlot = iota
	slotDF2
)

// Single-df families follow the statcheck layout: t and r report their df
// in df2, chi2 and Q in df1.
var familyPatterns = []familyPattern{
	{
		family: model.FamilyT,
		re:     regexp.MustCompile(`\bt\s*\(\s*` + num + `\s*\)` + valuePart + pPart),
		dfs:    []dfSlot{slotDF2},
	},
	{
		family: model.FamilyF,
		re:     regexp.MustCompile(`\bF\s*\(\s*` + num + `\s*,\s*` + num + `\s*\)` + valuePart + pPart),
		dfs:    []dfSlot{slotDF1, slotDF2},
	},
	{
		family: model.FamilyR,
		re:     regexp.MustCompile(`\br\s*\(\s*` + num + `\s*\)` + valuePart + pPart),
		dfs:    []dfSlot{slotDF2},
	},
	{
		family: model.FamilyChi2,
		re: regexp.MustCompile(`(?:χ|\b[Cc]hi|\b[Xx])\s*-?\s*(?:2|[Ss]quared?)\s*\(\s*` + num +
			`\s*(?:,\s*[Nn]\s*=\s*\d+\s*)?\)` + valuePart + pPart),
		dfs: []dfSlot{slotDF1},
	},
	{
		family: model.FamilyQ,
		re:     regexp.MustCompile(`\bQ\s*\(\s*` + num + `\s*\)` + valuePart + pPart),
		dfs:    []dfSlot{slotDF1},
	},
	{
		family: model.FamilyZ,
		re:     regexp.MustCompile(`\b[zZ]` + valuePart + pPart),
	},
}

// RegexScanner matches the APA-style reporting conventions, e.g.
// "t(28) = 2.05, p = .05" or "F(2, 57) = 4.31, p < .05".
type RegexScanner struct{}

// NewRegexScanner creates a RegexScanner.
func NewRegexScanner() *RegexScanner {
	return &RegexScanner{}
}

// Scan returns citations in document order. Matches whose numbers do not
// parse are dropped.
func (s *RegexScanner) Scan(text string) []Citation {
	var out []Citation
	seen := make(map[int]bool)

	for _, fp := range familyPatterns {
		for _, loc := range fp.re.FindAllStringSubmatchIndex(text, -1) {
			if seen[loc[0]] {
				continue
			}
			c, ok := buildCitation(fp, text, loc)
			if !ok {
				continue
			}
			seen[loc[0]] = true
			out = append(out, c)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Offset < out[j].Offset })
	return out
}

func buildCitation(fp familyPattern, text string, loc []int) (Citation, bool) {
	group := func(i int) string {
		if loc[2*i] < 0 {
			return ""
		}
		return text[loc[2*i]:loc[2*i+1]]
	}

	c := Citation{
		Family: fp.family,
		Raw:    strings.Join(strings.Fields(text[loc[0]:loc[1]]), " "),
		Offset: loc[0],
	}

	idx := 1
	for _, slot := range fp.dfs {
		df, err := strconv.ParseFloat(group(idx), 64)
		if err != nil {
			return Citation{}, false
		}
		if slot == slotDF1 {
			c.DF1 = model.Float(df)
		} else {
			c.DF2 = model.Float(df)
		}
		idx++
	}

	c.ValueText = strings.ReplaceAll(group(idx), " ", "")
	value, err := strconv.ParseFloat(c.ValueText, 64)
	if err != nil {
		return Citation{}, false
	}
	c.Value = value
	idx++

	comparison, pText, ns := group(idx), group(idx+1), group(idx+2)
	if ns != "" {
		c.PComparison = "ns"
		return c, true
	}

	c.PComparison = normalizeComparison(comparison)
	c.PText = pText
	p, err := strconv.ParseFloat(pText, 64)
	if err != nil {
		return Citation{}, false
	}
	c.ReportedP = model.Float(p)
	return c, true
}

func normalizeComparison(op string) string {
	switch op {
	case "<=", "≤":
		return "<"
	case ">=", "≥":
		return ">"
	default:
		return op
	}
}

// decimals returns the number of decimal places a numeric literal was
// reported with. Exponent notation shifts the count ("2.5e-3" has 4).
func decimals(s string) int {
	s = strings.TrimLeft(s, "+-")
	exp := 0
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		exp, _ = strconv.Atoi(s[i+1:])
		s = s[:i]
	}
	d := 0
	if i := strings.IndexByte(s, '.'); i >= 0 {
		d = len(s) - i - 1
	}
	d -= exp
	if d < 0 {
		return 0
	}
	return d
}
