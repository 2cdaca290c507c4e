package repository

import (
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
)

const fileNameDateLayout = "06-01-02"

var fileNamePatterns = map[domain.SourceKind]*regexp.Regexp{}

func init() {
	for _, kind := range []domain.SourceKind{domain.SourcePOS, domain.SourceManual, domain.SourceGateway} {
		fileNamePatterns[kind] = regexp.MustCompile(
			`^TRANSACTION_` + regexp.QuoteMeta(kind.FileTag()) + `_TRAITE_SG_(\d{2}-\d{2}-\d{2})_\d{6}\.CSV$`,
		)
	}
}

// ValidateSourceFileName checks an extract name follows the naming convention
// and carries the business date of the run
func ValidateSourceFileName(name string, kind domain.SourceKind, businessDate time.Time) error {
	artifact := string(kind) + " extract"
	base := filepath.Base(name)

	re, ok := fileNamePatterns[kind]
	if !ok {
		return &domain.FormatError{Artifact: artifact, Err: fmt.Errorf("unknown source %q", kind)}
	}

	m := re.FindStringSubmatch(base)
	if m == nil {
		return &domain.FormatError{
			Artifact: artifact,
			Err:      fmt.Errorf("%w: %s", domain.ErrInvalidFileName, base),
		}
	}

	expected := businessDate.Format(fileNameDateLayout)
	if m[1] != expected {
		return &domain.ValidationError{
			Artifact: artifact,
			Expected: expected,
			Actual:   m[1],
			Err:      domain.ErrFileDateMismatch,
		}
	}

	return nil
}
