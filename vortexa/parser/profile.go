// vortexa/parser/profile.go
package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/lavyajn/Hackathon-Vortexa/vortexa/types"
)

type section int

const (
	sectionContext section = iota
	sectionLoans
	sectionAssets
	sectionIncome
	sectionTenure
)

// Section headers are matched case-sensitively at line start, in this
// order; the first match wins and the header line itself carries no data.
var headers = []struct {
	prefix string
	next   section
}{
	{"Loans:", sectionLoans},
	{"Assets:", sectionAssets},
	{"Income:", sectionIncome},
	{"Tenure:", sectionTenure},
}

// Parse extracts a structured financial profile from a free-form prompt.
// It never fails: lines outside any recognized section are folded into
// FinancialContext, malformed lines inside a section are dropped.
func Parse(raw string) types.Profile {
	profile := types.Profile{
		OngoingLoans: []types.Loan{},
		Assets:       []types.Asset{},
		Liabilities:  []types.Asset{},
	}
	if raw == "" {
		return profile
	}

	current := sectionContext
line:
	for _, line := range strings.Split(raw, "\n") {
		for _, h := range headers {
			if strings.HasPrefix(line, h.prefix) {
				current = h.next
				continue line
			}
		}
		switch current {
		case sectionLoans:
			parts := splitFields(line)
			if len(parts) != 3 {
				continue
			}
			principal, errP := strconv.ParseFloat(parts[1], 64)
			rate, errR := strconv.ParseFloat(parts[2], 64)
			if errP != nil || errR != nil {
				continue
			}
			profile.OngoingLoans = append(profile.OngoingLoans, types.Loan{
				Name:         parts[0],
				Principal:    principal,
				InterestRate: rate,
			})
		case sectionAssets:
			parts := splitFields(line)
			if len(parts) != 2 {
				continue
			}
			value, err := strconv.ParseFloat(parts[1], 64)
			if err != nil {
				continue
			}
			profile.Assets = append(profile.Assets, types.Asset{Name: parts[0], Value: value})
		case sectionIncome:
			profile.MonthlyIncome = parseAmount(line)
		case sectionTenure:
			profile.DesiredTenureMonths = parseAmount(line)
		default:
			profile.FinancialContext += line + "\n"
		}
	}
	return profile
}

// splitFields splits a record line on commas and trims each field.
// Returns nil if any field comes out empty.
func splitFields(line string) []string {
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
		if parts[i] == "" {
			return nil
		}
	}
	return parts
}

// parseAmount parses a whole line as a float. Unparseable or non-finite
// input yields 0 so downstream consumers always see a finite number.
func parseAmount(line string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
