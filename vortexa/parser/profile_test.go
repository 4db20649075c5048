package parser

import "testing"

func TestParseEmpty(t *testing.T) {
	p := Parse("")
	if len(p.OngoingLoans) != 0 || len(p.Assets) != 0 {
		t.Errorf("expected empty collections, got %d loans, %d assets", len(p.OngoingLoans), len(p.Assets))
	}
	if p.MonthlyIncome != 0 || p.DesiredTenureMonths != 0 {
		t.Errorf("expected zero income and tenure, got %v and %v", p.MonthlyIncome, p.DesiredTenureMonths)
	}
	if p.FinancialContext != "" {
		t.Errorf("expected empty context, got %q", p.FinancialContext)
	}
}

func TestParseSingleLoan(t *testing.T) {
	p := Parse("Loans:\nName,100,5")
	if len(p.OngoingLoans) != 1 {
		t.Fatalf("expected 1 loan, got %d", len(p.OngoingLoans))
	}
	loan := p.OngoingLoans[0]
	if loan.Name != "Name" || loan.Principal != 100 || loan.InterestRate != 5 {
		t.Errorf("unexpected loan %+v", loan)
	}
}

func TestParseFullPrompt(t *testing.T) {
	input := "I want to be debt free\nLoans:\nCar,500000,9.5\nCredit Card,50000,24\nAssets:\nFD,200000\nIncome:\n75000\nTenure:\n60"
	p := Parse(input)

	if len(p.OngoingLoans) != 2 {
		t.Fatalf("expected 2 loans, got %d", len(p.OngoingLoans))
	}
	if p.OngoingLoans[0].Name != "Car" || p.OngoingLoans[0].Principal != 500000 || p.OngoingLoans[0].InterestRate != 9.5 {
		t.Errorf("unexpected first loan %+v", p.OngoingLoans[0])
	}
	if p.OngoingLoans[1].Name != "Credit Card" {
		t.Errorf("expected loan order to follow input order, got %q first", p.OngoingLoans[1].Name)
	}
	if len(p.Assets) != 1 || p.Assets[0].Value != 200000 {
		t.Errorf("unexpected assets %+v", p.Assets)
	}
	if p.MonthlyIncome != 75000 {
		t.Errorf("expected income 75000, got %v", p.MonthlyIncome)
	}
	if p.DesiredTenureMonths != 60 {
		t.Errorf("expected tenure 60, got %v", p.DesiredTenureMonths)
	}
	if p.FinancialContext != "I want to be debt free\n" {
		t.Errorf("unexpected context %q", p.FinancialContext)
	}
}

func TestParseDropsMalformedLoanLines(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"too few fields", "Loans:\nCar,500000"},
		{"too many fields", "Loans:\nCar,500000,9.5,extra"},
		{"empty field", "Loans:\nCar,,9.5"},
		{"non-numeric principal", "Loans:\nCar,lots,9.5"},
		{"non-numeric rate", "Loans:\nCar,500000,high"},
		{"blank line", "Loans:\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Parse(tc.input)
			if len(p.OngoingLoans) != 0 {
				t.Errorf("expected malformed line to be dropped, got %+v", p.OngoingLoans)
			}
		})
	}
}

func TestParseDropsMalformedAssetLines(t *testing.T) {
	p := Parse("Assets:\nFD\nGold,not a number\nHouse,1000000")
	if len(p.Assets) != 1 || p.Assets[0].Name != "House" {
		t.Errorf("expected only the well-formed asset, got %+v", p.Assets)
	}
}

func TestParseIncomeDefaultsToZeroOnBadInput(t *testing.T) {
	for _, input := range []string{"Income:\nplenty", "Income:\nNaN", "Income:\n+Inf"} {
		p := Parse(input)
		if p.MonthlyIncome != 0 {
			t.Errorf("Parse(%q): expected income 0, got %v", input, p.MonthlyIncome)
		}
	}
}

func TestParseLastOccurrenceWins(t *testing.T) {
	p := Parse("Income:\n50000\nIncome:\n75000")
	if p.MonthlyIncome != 75000 {
		t.Errorf("expected last income to win, got %v", p.MonthlyIncome)
	}
}

func TestParseContextKeepsUnclaimedLines(t *testing.T) {
	p := Parse("line one\n\nline two")
	if p.FinancialContext != "line one\n\nline two\n" {
		t.Errorf("unexpected context %q", p.FinancialContext)
	}
}

func TestParseHeaderLineCarriesNoData(t *testing.T) {
	p := Parse("Loans: some trailing text\nCar,500000,9.5")
	if len(p.OngoingLoans) != 1 || p.OngoingLoans[0].Name != "Car" {
		t.Errorf("expected header line to be consumed, got %+v", p.OngoingLoans)
	}
	if p.FinancialContext != "" {
		t.Errorf("header line should not leak into context, got %q", p.FinancialContext)
	}
}
