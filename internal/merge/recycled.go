package merge

import (
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	subsidiaryPrefix = regexp.MustCompile(`^SG\s*-\s*`)
	apostrophes      = strings.NewReplacer("'", " ", "’", " ", "`", " ")
)

type recycledKey struct {
	subsidiary, network, arn, authorization, txnDate, amount, currency string
}

type networkKey struct {
	subsidiary, network string
}

type recycledTotal struct {
	count  int64
	amount decimal.Decimal
}

// MergeWithRecycled merges the sources, then adds the recycled transactions due
// on the cutoff day to every unified row of their subsidiary and network.
// It returns the recycled rows that were applied.
func MergeWithRecycled(recycled []domain.RecycledTransaction, pos, manual, gateway []domain.SourceRecord, cutoff time.Time) ([]domain.RecycledTransaction, []domain.UnifiedTotal, int64) {
	unified, _ := Merge(pos, manual, gateway)

	due := DueRecycled(recycled, cutoff)

	totals := make(map[networkKey]recycledTotal)
	for _, r := range due {
		k := networkKey{subsidiary: r.Subsidiary, network: r.Network}
		t, ok := totals[k]
		if !ok {
			t.amount = decimal.Zero
		}
		t.count++
		t.amount = t.amount.Add(r.Amount)
		totals[k] = t
	}

	var total int64
	applied := make(map[networkKey]bool, len(totals))
	for i := range unified {
		k := networkKey{subsidiary: unified[i].Subsidiary, network: unified[i].Network}
		if t, ok := totals[k]; ok {
			unified[i].Count += t.count
			unified[i].Amount = unified[i].Amount.Add(t.amount)
			applied[k] = true
		}
		total += unified[i].Count
	}

	for k, t := range totals {
		if !applied[k] {
			slog.Warn("Recycled transactions for a subsidiary without unified total",
				"subsidiary", k.subsidiary, "network", k.network, "count", t.count)
		}
	}

	return due, unified, total
}

// DueRecycled keeps the recycled rows reprocessed exactly on the cutoff day,
// deduplicated, with subsidiary spellings normalized
func DueRecycled(recycled []domain.RecycledTransaction, cutoff time.Time) []domain.RecycledTransaction {
	day := cutoff.Format(domain.ISODate)

	seen := make(map[recycledKey]bool)
	due := make([]domain.RecycledTransaction, 0)

	for _, r := range recycled {
		if r.ReprocessingDate != day {
			continue
		}

		k := recycledKey{
			subsidiary:    r.Subsidiary,
			network:       r.Network,
			arn:           r.ARN,
			authorization: r.Authorization,
			txnDate:       r.TransactionDate,
			amount:        r.Amount.String(),
			currency:      r.Currency,
		}
		if seen[k] {
			continue
		}
		seen[k] = true

		r.Subsidiary = NormalizeSubsidiary(r.Subsidiary)
		due = append(due, r)
	}

	return due
}

// NormalizeSubsidiary folds spelling variants of a subsidiary name:
// "SG-CÔTE D'IVOIRE" becomes "SG - COTE D IVOIRE".
func NormalizeSubsidiary(name string) string {
	name = foldAccents(name)
	name = apostrophes.Replace(name)
	name = strings.Join(strings.Fields(name), " ")
	return subsidiaryPrefix.ReplaceAllString(name, "SG - ")
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
