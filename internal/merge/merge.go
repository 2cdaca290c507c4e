// Package merge combines the filtered internal extracts into unified totals.
package merge

import (
	"sort"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
	"github.com/shopspring/decimal"
)

// joined is one row of the outer joins, before counts are summed
type joined struct {
	subsidiary string
	network    string
	currency   string
	txnType    domain.TransactionType
	date       string

	posCount     int64
	manualCount  int64
	gatewayCount int64
	posAmount    decimal.Decimal
}

type currencyKey struct {
	subsidiary, network, currency string
}

type typeKey struct {
	currencyKey
	txnType domain.TransactionType
}

type rowKey struct {
	typeKey
	date string
}

// Merge outer-joins POS with manual entries on subsidiary, network and currency,
// then the gateway on the same keys plus transaction type. Counts of the three
// sources are summed; the amount is the POS amount alone. Rows repeating
// subsidiary, network, currency, type and date keep the first occurrence.
func Merge(pos, manual, gateway []domain.SourceRecord) ([]domain.UnifiedTotal, int64) {
	rows := joinGateway(joinManual(pos, manual), gateway)

	sort.SliceStable(rows, func(i, j int) bool {
		return lessTypeKey(rows[i].typeKey(), rows[j].typeKey())
	})

	seen := make(map[rowKey]bool, len(rows))
	unified := make([]domain.UnifiedTotal, 0, len(rows))
	var total int64

	for _, r := range rows {
		k := rowKey{typeKey: r.typeKey(), date: r.date}
		if seen[k] {
			continue
		}
		seen[k] = true

		count := r.posCount + r.manualCount + r.gatewayCount
		total += count
		unified = append(unified, domain.UnifiedTotal{
			Subsidiary:      r.subsidiary,
			Network:         r.network,
			Currency:        r.currency,
			TransactionType: r.txnType,
			ProcessingDate:  r.date,
			Count:           count,
			Amount:          r.posAmount,
		})
	}

	return unified, total
}

// joinManual is the full outer join of POS and manual rows on currencyKey
func joinManual(pos, manual []domain.SourceRecord) []joined {
	byKey := make(map[currencyKey][]int)
	for i, m := range manual {
		k := keyOf(m)
		byKey[k] = append(byKey[k], i)
	}

	matched := make([]bool, len(manual))
	rows := make([]joined, 0, len(pos)+len(manual))

	for _, p := range pos {
		base := joined{
			subsidiary: p.Subsidiary,
			network:    p.Network,
			currency:   p.Currency,
			txnType:    p.TransactionType,
			date:       p.ProcessingDate,
			posCount:   p.Count,
			posAmount:  p.Amount,
		}

		idx := byKey[keyOf(p)]
		if len(idx) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, i := range idx {
			r := base
			r.manualCount = manual[i].Count
			matched[i] = true
			rows = append(rows, r)
		}
	}

	for i, m := range manual {
		if matched[i] {
			continue
		}
		rows = append(rows, joined{
			subsidiary:  m.Subsidiary,
			network:     m.Network,
			currency:    m.Currency,
			txnType:     m.TransactionType,
			manualCount: m.Count,
			posAmount:   decimal.Zero,
		})
	}

	return rows
}

// joinGateway is the full outer join of the POS/manual rows and the gateway on typeKey
func joinGateway(left []joined, gateway []domain.SourceRecord) []joined {
	byKey := make(map[typeKey][]int)
	for i, g := range gateway {
		k := typeKey{currencyKey: keyOf(g), txnType: g.TransactionType}
		byKey[k] = append(byKey[k], i)
	}

	matched := make([]bool, len(gateway))
	rows := make([]joined, 0, len(left)+len(gateway))

	for _, l := range left {
		idx := byKey[l.typeKey()]
		if len(idx) == 0 {
			rows = append(rows, l)
			continue
		}
		for _, i := range idx {
			r := l
			r.gatewayCount = gateway[i].Count
			matched[i] = true
			rows = append(rows, r)
		}
	}

	for i, g := range gateway {
		if matched[i] {
			continue
		}
		rows = append(rows, joined{
			subsidiary:   g.Subsidiary,
			network:      g.Network,
			currency:     g.Currency,
			txnType:      g.TransactionType,
			gatewayCount: g.Count,
			posAmount:    decimal.Zero,
		})
	}

	return rows
}

func keyOf(r domain.SourceRecord) currencyKey {
	return currencyKey{subsidiary: r.Subsidiary, network: r.Network, currency: r.Currency}
}

func (j joined) typeKey() typeKey {
	return typeKey{
		currencyKey: currencyKey{subsidiary: j.subsidiary, network: j.network, currency: j.currency},
		txnType:     j.txnType,
	}
}

func lessTypeKey(a, b typeKey) bool {
	if a.subsidiary != b.subsidiary {
		return a.subsidiary < b.subsidiary
	}
	if a.network != b.network {
		return a.network < b.network
	}
	if a.currency != b.currency {
		return a.currency < b.currency
	}
	return a.txnType < b.txnType
}
