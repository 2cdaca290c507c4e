package settlement

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// DefaultNetwork is the network every reject is attributed to
	DefaultNetwork = "MASTERCARD INTERNATIONAL"

	// DefaultSubsidiaryPrefix is prepended to the country name to form a subsidiary
	DefaultSubsidiaryPrefix = "SG - "

	runDateLayout      = "01/02/06"
	reportDateLayout   = "060102"
	businessDateLayout = "06-01-02"

	artifactReport = "settlement report"
)

// Parser extracts the run date, totals and rejects from a TT140 report
type Parser struct {
	currencies domain.LookupTable
	countries  domain.LookupTable

	network               string
	subsidiaryPrefix      string
	countryTagSkip        int
	amountImpliedDecimals int
}

// Option configures a Parser
type Option func(*Parser)

// WithNetwork sets the network stamped on rejects
func WithNetwork(network string) Option {
	return func(p *Parser) {
		p.network = network
	}
}

// WithSubsidiaryPrefix sets the prefix put in front of the country name
func WithSubsidiaryPrefix(prefix string) Option {
	return func(p *Parser) {
		p.subsidiaryPrefix = prefix
	}
}

// WithCountryTagSkip overrides how many leading country tags belong to the legend
func WithCountryTagSkip(n int) Option {
	return func(p *Parser) {
		if n >= 0 {
			p.countryTagSkip = n
		}
	}
}

// WithAmountImpliedDecimals overrides how many trailing amount characters are dropped
func WithAmountImpliedDecimals(n int) Option {
	return func(p *Parser) {
		if n >= 0 {
			p.amountImpliedDecimals = n
		}
	}
}

// NewParser creates a new report parser
func NewParser(currencies, countries domain.LookupTable, opts ...Option) *Parser {
	p := &Parser{
		currencies:            currencies,
		countries:             countries,
		network:               DefaultNetwork,
		subsidiaryPrefix:      DefaultSubsidiaryPrefix,
		countryTagSkip:        CountryTagSkip,
		amountImpliedDecimals: AmountImpliedDecimals,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads the whole report
func (p *Parser) Parse(text string) (*domain.SettlementReport, error) {
	runDate, businessDate, err := ExtractRunDate(text)
	if err != nil {
		return nil, err
	}

	rejects, err := p.ExtractRejections(text)
	if err != nil {
		return nil, err
	}

	return &domain.SettlementReport{
		RunDate:      runDate,
		BusinessDate: businessDate,
		TotalCount:   ExtractTotalCount(text),
		Rejects:      rejects,
		Summary:      CalculateRejectSummary(rejects),
	}, nil
}

// ExtractRunDate returns the report run date and the business date, one day later
func ExtractRunDate(text string) (time.Time, time.Time, error) {
	for _, line := range strings.Split(text, "\n") {
		if !strings.HasPrefix(line, RunDateLinePrefix) {
			continue
		}

		m := runDatePattern.FindStringSubmatch(line)
		if m == nil {
			return time.Time{}, time.Time{}, &domain.FormatError{Artifact: artifactReport, Err: domain.ErrRunDateTokenMissing}
		}

		runDate, err := time.Parse(runDateLayout, m[1])
		if err != nil {
			return time.Time{}, time.Time{}, &domain.FormatError{
				Artifact: artifactReport,
				Err:      fmt.Errorf("%w: %v", domain.ErrRunDateTokenMissing, err),
			}
		}
		runDate = in21stCentury(runDate)
		return runDate, runDate.AddDate(0, 0, 1), nil
	}

	return time.Time{}, time.Time{}, &domain.FormatError{Artifact: artifactReport, Err: domain.ErrRunDateLineMissing}
}

// FormatBusinessDate renders a business date the way source file names carry it
func FormatBusinessDate(t time.Time) string {
	return t.Format(businessDateLayout)
}

// ExtractTotalCount sums the digit-only tokens of every first presentment total line
func ExtractTotalCount(text string) int64 {
	var total int64
	for _, line := range strings.Split(text, "\n") {
		if !firstPresTotalPattern.MatchString(line) {
			continue
		}
		for _, tok := range strings.Fields(line) {
			if !isDigits(tok) {
				continue
			}
			n, err := strconv.ParseInt(tok, 10, 64)
			if err != nil {
				continue
			}
			total += n
		}
	}
	return total
}

// ExtractRejections returns one record per rejected transaction, in document order
func (p *Parser) ExtractRejections(text string) ([]domain.RejectRecord, error) {
	tok := NewTokenizer(text)

	amounts := tok.Values(sourceAmountPattern)
	if len(amounts) == 0 {
		return []domain.RejectRecord{}, nil
	}

	currencies := tok.Values(sourceCurrencyPattern)
	countries := tok.TagOffsetValues(CountryTag, p.countryTagSkip, CountryValueOffset)
	dates := tok.Values(transactionDatePattern)
	arns := tok.GroupedValues(arnPattern, ARNGroupStart)
	auths := tok.Values(authorizationPattern)

	sections := tok.Sections(reasonSectionStart, ReasonSectionEnd)
	if len(sections) == 0 {
		return nil, &domain.FormatError{Artifact: artifactReport, Err: domain.ErrReasonSectionMissing}
	}

	n := len(amounts)
	if len(currencies) != n || len(countries) != n || len(dates) != n || len(arns) != n || len(auths) != n {
		return nil, &domain.FormatError{
			Artifact: artifactReport,
			Err: fmt.Errorf("%w: amounts=%d currencies=%d countries=%d dates=%d arns=%d authorizations=%d",
				domain.ErrMisalignedRejects, n, len(currencies), len(countries), len(dates), len(arns), len(auths)),
		}
	}

	reasons := make([]string, n)
	for i, section := range sections {
		if i >= n {
			slog.Debug("Ignoring reason sections without a matching reject", "sections", len(sections), "rejects", n)
			break
		}
		reasons[i] = extractReason(section)
	}
	if len(sections) < n {
		slog.Warn("Fewer reason sections than rejects", "sections", len(sections), "rejects", n)
	}

	records := make([]domain.RejectRecord, 0, n)
	for i := 0; i < n; i++ {
		amount, err := p.parseAmount(amounts[i])
		if err != nil {
			return nil, &domain.FormatError{Artifact: artifactReport, Err: err}
		}

		records = append(records, domain.RejectRecord{
			Subsidiary:      p.subsidiary(countries[i]),
			Network:         p.network,
			ARN:             arns[i],
			Authorization:   auths[i],
			TransactionDate: reportDate(dates[i]),
			Amount:          amount,
			RawAmount:       amounts[i],
			CurrencyCode:    currencies[i],
			Currency:        p.currencies.Name(currencies[i]),
			Reason:          reasons[i],
		})
	}

	slog.Debug("Extracted rejects", "count", len(records))
	return records, nil
}

func (p *Parser) subsidiary(acronym string) string {
	name := p.countries.Name(acronym)
	if name == domain.NotFound {
		return domain.NotFound
	}
	return p.subsidiaryPrefix + name
}

// parseAmount drops the indicator and separators, then the implied decimal suffix
func (p *Parser) parseAmount(raw string) (decimal.Decimal, error) {
	cleaned := amountNoise.ReplaceAllString(stripIndicator(raw), "")
	if len(cleaned) <= p.amountImpliedDecimals {
		return decimal.Zero, fmt.Errorf("amount token %q too short", raw)
	}
	cleaned = cleaned[:len(cleaned)-p.amountImpliedDecimals]

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount token %q: %w", raw, err)
	}
	return amount, nil
}

// extractReason joins the description of every code line in a section
func extractReason(section string) string {
	var parts []string
	for _, line := range strings.Split(section, "\n") {
		m := reasonLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		parts = append(parts, collapseSpaces(m[2]))
	}
	return strings.Join(parts, " ")
}

// reportDate converts a YYMMDD element into an ISO date
func reportDate(s string) string {
	t, err := time.Parse(reportDateLayout, s)
	if err != nil {
		return s
	}
	return in21stCentury(t).Format(domain.ISODate)
}

// in21stCentury moves a two-digit year that time.Parse placed in 19YY to 20YY
func in21stCentury(t time.Time) time.Time {
	if t.Year() < 2000 {
		return t.AddDate(100, 0, 0)
	}
	return t
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
