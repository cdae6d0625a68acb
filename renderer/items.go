package renderer

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/etnz/hobby"
	md "github.com/nao1215/markdown"
)

// Items renders a list of held or listed items.
func Items(title string, items []hobby.Item, cur string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(title)

	if len(items) == 0 {
		doc.PlainText("No items.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignRight,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignLeft,
		},
		Header: []string{"ID", "Grade", "Name", "Qty", "Purchase", "Desired", "Location"},
		Rows:   [][]string{},
	}
	for _, it := range items {
		table.Rows = append(table.Rows, []string{
			strconv.FormatInt(it.ID, 10),
			cell(string(it.Grade)),
			cell(it.Name),
			strconv.Itoa(it.Quantity),
			hobby.FormatPrice(it.PurchasePrice, cur),
			hobby.FormatPrice(it.DesiredSalePrice, cur),
			cell(orDash(it.PurchaseLocation)),
		})
	}
	doc.Table(table)
	doc.PlainText(fmt.Sprintf("%d item(s), stock value %s.", len(items), hobby.FormatAmount(hobby.StockValue(items, nil), cur)))
	return doc.String()
}

// SoldItems renders the sold items with the net profit of each sale.
func SoldItems(title string, items []hobby.SoldItem, cur string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(title)

	if len(items) == 0 {
		doc.PlainText("No items.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignRight,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{"ID", "Grade", "Name", "Purchase", "Sale", "Medium", "Profit"},
		Rows:   [][]string{},
	}
	for _, s := range items {
		table.Rows = append(table.Rows, []string{
			strconv.FormatInt(s.ID, 10),
			cell(string(s.Grade)),
			cell(s.Name),
			hobby.FormatPrice(s.PurchasePrice, cur),
			hobby.FormatAmount(s.SalePrice, cur),
			cell(s.SaleMedium),
			hobby.SignedAmount(hobby.NetProfit(s), cur),
		})
	}
	doc.Table(table)
	doc.PlainText(fmt.Sprintf("%d item(s), realized profit %s.", len(items), hobby.SignedAmount(hobby.RealizedProfit(items), cur)))
	return doc.String()
}
