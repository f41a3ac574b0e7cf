// Package report renders group statements as PDF documents.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/splitledger/splitledger/internal/money"
)

// BalanceLine is one member's net position in the statement.
type BalanceLine struct {
	DisplayName string
	Amount      int64
}

// ExpenseLine is one expense row in the statement.
type ExpenseLine struct {
	Description string
	PaidBy      string
	Amount      int64
	CreatedAt   int64
}

// SettlementLine is one settlement row in the statement.
type SettlementLine struct {
	From   string
	To     string
	Amount int64
	Status string
}

// Statement holds everything the group statement PDF renders. Names are
// already resolved to display names; amounts are in minor units of
// Currency.
type Statement struct {
	GroupName   string
	Currency    string
	GeneratedAt time.Time
	Balances    []BalanceLine
	Expenses    []ExpenseLine
	Settlements []SettlementLine
}

// BuildStatementPDF renders the statement as a single-document PDF.
func BuildStatementPDF(st *Statement) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Splitledger Group Statement", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Group Statement")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Group: %s (%s)", st.GroupName, st.Currency))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", st.GeneratedAt.UTC().Format("2006-01-02 15:04 MST")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Balances")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(90, 7, "Member")
	pdf.Cell(50, 7, "Net Balance")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 11)
	for _, b := range st.Balances {
		pdf.Cell(90, 7, b.DisplayName)
		pdf.Cell(50, 7, fmt.Sprintf("%s %s", money.Format(b.Amount), st.Currency))
		pdf.Ln(7)
	}
	pdf.Ln(5)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Expenses")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(70, 7, "Description")
	pdf.Cell(45, 7, "Paid By")
	pdf.Cell(40, 7, "Amount")
	pdf.Cell(30, 7, "Date")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 11)
	for _, e := range st.Expenses {
		pdf.Cell(70, 7, e.Description)
		pdf.Cell(45, 7, e.PaidBy)
		pdf.Cell(40, 7, fmt.Sprintf("%s %s", money.Format(e.Amount), st.Currency))
		pdf.Cell(30, 7, time.Unix(e.CreatedAt, 0).UTC().Format("2006-01-02"))
		pdf.Ln(7)
	}
	pdf.Ln(5)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Settlements")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(55, 7, "From")
	pdf.Cell(55, 7, "To")
	pdf.Cell(40, 7, "Amount")
	pdf.Cell(30, 7, "Status")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 11)
	for _, s := range st.Settlements {
		pdf.Cell(55, 7, s.From)
		pdf.Cell(55, 7, s.To)
		pdf.Cell(40, 7, fmt.Sprintf("%s %s", money.Format(s.Amount), st.Currency))
		pdf.Cell(30, 7, s.Status)
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
