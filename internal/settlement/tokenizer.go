package settlement

import (
	"regexp"
	"strings"
)

// Report layout assumptions. The TT140 reject report has no published grammar;
// every offset below was taken from production files and is pinned by the
// golden report under testdata.
const (
	// RunDateLinePrefix starts the page header line carrying the run date.
	RunDateLinePrefix = "1IP727010-AA"

	// AmountIndicator may prefix any element value and carries no meaning for parsing.
	AmountIndicator = "*"

	// AmountImpliedDecimals is the number of trailing characters dropped from a
	// SOURCE AMOUNT token before it is read as a whole amount.
	AmountImpliedDecimals = 3

	// CountryTag marks the country element of a reject.
	CountryTag = "D0043"

	// CountryTagSkip is the number of leading country tags that belong to the
	// element legend and not to a reject.
	CountryTagSkip = 5

	// CountryValueOffset is the distance from a country tag to its value token
	// (tag, subfield, value).
	CountryValueOffset = 2

	// ARNGroupStart is the subfield opening a new acquirer reference number.
	ARNGroupStart = "01"

	// ReasonSectionEnd closes a CODE/DESCRIPTION section.
	ReasonSectionEnd = "MESSAGE DETAILS"
)

var (
	runDatePattern         = regexp.MustCompile(`RUN DATE: (\d{2}/\d{2}/\d{2})`)
	firstPresTotalPattern  = regexp.MustCompile(`FIRST PRES\.\s+TOTAL`)
	sourceAmountPattern    = regexp.MustCompile(`SOURCE AMOUNT:\s+(\*?\S+)`)
	sourceCurrencyPattern  = regexp.MustCompile(`SOURCE CURRENCY:\s+(\*?\S+)`)
	transactionDatePattern = regexp.MustCompile(`D0012\s+S01\s+\*?(\d{6})`)
	arnPattern             = regexp.MustCompile(`D0031\s+S(\d+)\s+\*?(\d+)`)
	authorizationPattern   = regexp.MustCompile(`D0038\s+(\*?\S+)`)
	reasonSectionStart     = regexp.MustCompile(`CODE\s+DESCRIPTION`)
	reasonLinePattern      = regexp.MustCompile(`^\s*(\d{4})\s+(\S.*?)(?:\s{2,}|\t|$)`)
	amountNoise            = regexp.MustCompile(`[/$,]`)
	whitespaceRun          = regexp.MustCompile(`\s+`)
)

// Tokenizer scans a report as one document rather than line by line
type Tokenizer struct {
	raw    string
	flat   string
	tokens []string
}

// NewTokenizer prepares a report text for tag scanning
func NewTokenizer(text string) *Tokenizer {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	flat := strings.Join(strings.Split(text, "\n"), " ")
	return &Tokenizer{
		raw:    text,
		flat:   flat,
		tokens: strings.Fields(flat),
	}
}

// Lines returns the report lines
func (t *Tokenizer) Lines() []string {
	return strings.Split(t.raw, "\n")
}

// Values returns the first capture group of every match, indicator stripped
func (t *Tokenizer) Values(re *regexp.Regexp) []string {
	matches := re.FindAllStringSubmatch(t.flat, -1)
	values := make([]string, 0, len(matches))
	for _, m := range matches {
		values = append(values, stripIndicator(m[1]))
	}
	return values
}

// TagOffsetValues returns the token found offset positions after each occurrence
// of tag, ignoring the first skip occurrences
func (t *Tokenizer) TagOffsetValues(tag string, skip, offset int) []string {
	var positions []int
	for i, tok := range t.tokens {
		if tok == tag || tok == AmountIndicator+tag {
			positions = append(positions, i)
		}
	}
	if len(positions) <= skip {
		return nil
	}

	values := make([]string, 0, len(positions)-skip)
	for _, pos := range positions[skip:] {
		if pos+offset >= len(t.tokens) {
			continue
		}
		values = append(values, stripIndicator(t.tokens[pos+offset]))
	}
	return values
}

// GroupedValues concatenates subfield values of re into one value per group; a
// group starts at every match whose subfield equals start. re must capture the
// subfield first and the value second.
func (t *Tokenizer) GroupedValues(re *regexp.Regexp, start string) []string {
	var (
		groups  []string
		current strings.Builder
		open    bool
	)
	for _, m := range re.FindAllStringSubmatch(t.flat, -1) {
		if m[1] == start && open {
			groups = append(groups, current.String())
			current.Reset()
		}
		current.WriteString(stripIndicator(m[2]))
		open = true
	}
	if open {
		groups = append(groups, current.String())
	}
	return groups
}

// Sections returns the raw text between each start marker and the next end marker
func (t *Tokenizer) Sections(start *regexp.Regexp, end string) []string {
	var sections []string
	rest := t.raw
	for {
		loc := start.FindStringIndex(rest)
		if loc == nil {
			return sections
		}
		rest = rest[loc[0]:]
		stop := strings.Index(rest, end)
		if stop == -1 {
			sections = append(sections, rest)
			return sections
		}
		sections = append(sections, rest[:stop])
		rest = rest[stop+len(end):]
	}
}

func stripIndicator(s string) string {
	return strings.TrimLeft(s, AmountIndicator)
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}
