package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/hobby"
	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"
)

// History renders the fund history, most recent entry first.
func History(balance decimal.Decimal, entries []hobby.Entry, cur string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Fund History")
	doc.PlainText(fmt.Sprintf("Balance: %s", hobby.FormatAmount(balance, cur)))

	if len(entries) == 0 {
		doc.PlainText("No entries.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignLeft,
		},
		Header: []string{"Date", "Amount", "Reason"},
		Rows:   [][]string{},
	}
	for _, e := range entries {
		table.Rows = append(table.Rows, []string{
			e.Date.Local().Format("2006-01-02 15:04"),
			hobby.SignedAmount(e.Amount, cur),
			cell(e.Reason),
		})
	}
	doc.Table(table)
	return doc.String()
}
