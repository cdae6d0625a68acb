package hobby

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// this file contains functions to handle the import/export format.
// It is a spreadsheet workbook, so it remains readable and editable by hand.
//
// The workbook has one sheet per section. The first row of a sheet holds the
// column names, which are the JSON names of Item, SoldItem and Entry; every
// following row is one record. Decoding is driven by the column names: order
// does not matter, unknown columns are ignored and missing ones take their
// default value. A missing sheet is an empty section.
//
// A text longer than a cell can hold continues in extra columns named after
// the first one, "details~2", "details~3" and so on, joined back on decode.

// Workbook sheet names.
const (
	SheetHeld        = "Held"
	SheetListed      = "Listed"
	SheetSold        = "Sold"
	SheetFundSummary = "FundSummary"
	SheetFundHistory = "FundHistory"
)

// Sheets lists the workbook sheets in document order.
var Sheets = []string{SheetHeld, SheetListed, SheetSold, SheetFundSummary, SheetFundHistory}

// legacySheets maps each sheet to its name in the first layout of the format.
// They are only read.
var legacySheets = map[string]string{
	SheetHeld:        "보관목록",
	SheetListed:      "판매목록",
	SheetSold:        "판매완료",
	SheetFundSummary: "자금요약",
	SheetFundHistory: "취미자금내역",
}

const (
	colID               = "id"
	colGrade            = "grade"
	colName             = "name"
	colQuantity         = "quantity"
	colPurchasePrice    = "purchasePrice"
	colDesiredSalePrice = "desiredSalePrice"
	colPurchaseLocation = "purchaseLocation"
	colDetails          = "details"
	colImageURLs        = "imageUrls"
	colShippingCost     = "shippingCost"
	colOtherFees        = "otherFees"
	colSalePrice        = "salePrice"
	colSaleMedium       = "saleMedium"
	colDate             = "date"
	colAmount           = "amount"
	colReason           = "reason"
	colBalance          = "balance"

	// columns of the first layout.
	colLegacyImageURL = "imageUrl"
	colLegacyBalance  = "현재 취미 자금 잔액"
)

var itemColumns = []string{
	colID, colGrade, colName, colQuantity, colPurchasePrice, colDesiredSalePrice,
	colPurchaseLocation, colDetails, colImageURLs, colShippingCost, colOtherFees,
}

var soldColumns = append(slices.Clone(itemColumns), colSalePrice, colSaleMedium)

var historyColumns = []string{colDate, colAmount, colReason}

// continuation separates a column name from the index of its continuation columns.
const continuation = "~"

// number converts an amount to a numeric cell value, or to a text cell when a
// float64 cannot hold it exactly.
func number(d decimal.Decimal) any {
	f := d.InexactFloat64()
	if !decimal.NewFromFloat(f).Equal(d) {
		return d.String()
	}
	return f
}

// price converts an optional amount to a cell value, empty when missing.
func price(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return number(d.Decimal)
}

// images flattens a list of image references into a single cell: a JSON array,
// or an empty cell for an empty list.
func images(urls []string) (any, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(urls)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func itemRow(it Item) ([]any, error) {
	imgs, err := images(it.ImageURLs)
	if err != nil {
		return nil, fmt.Errorf("cannot encode images of item %d: %w", it.ID, err)
	}
	return []any{
		it.ID, string(it.Grade), it.Name, it.Quantity, price(it.PurchasePrice), price(it.DesiredSalePrice),
		it.PurchaseLocation, it.Details, imgs, price(it.ShippingCost), price(it.OtherFees),
	}, nil
}

// splitText cuts s into parts of at most n characters.
func splitText(s string, n int) []string {
	var parts []string
	for s != "" {
		i := 0
		for count := 0; i < len(s) && count < n; count++ {
			_, size := utf8.DecodeRuneInString(s[i:])
			i += size
		}
		parts = append(parts, s[:i])
		s = s[i:]
	}
	return parts
}

// spill moves the text exceeding the cell size into continuation columns
// appended to the header.
func spill(header []string, rows [][]any) ([]string, [][]any) {
	parts := make([]int, len(header))
	for _, row := range rows {
		for i, v := range row {
			if text, ok := v.(string); ok {
				n := (utf8.RuneCountInString(text) + excelize.TotalCellChars - 1) / excelize.TotalCellChars
				parts[i] = max(parts[i], n)
			}
		}
	}

	wide := slices.Clone(header)
	first := make(map[int]int) // column to the index of its first continuation
	for i, n := range parts {
		if n < 2 {
			continue
		}
		first[i] = len(wide)
		for k := 2; k <= n; k++ {
			wide = append(wide, header[i]+continuation+strconv.Itoa(k))
		}
	}
	if len(first) == 0 {
		return header, rows
	}

	spilled := make([][]any, len(rows))
	for r, row := range rows {
		line := make([]any, len(wide))
		copy(line, row)
		for i, at := range first {
			text, ok := row[i].(string)
			if !ok || text == "" {
				continue
			}
			chunks := splitText(text, excelize.TotalCellChars)
			line[i] = chunks[0]
			for k, c := range chunks[1:] {
				line[at+k] = c
			}
		}
		spilled[r] = line
	}
	return wide, spilled
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any) error {
	header, rows = spill(header, rows)
	head := make([]any, len(header))
	for i, h := range header {
		head[i] = h
	}
	for i, row := range append([][]any{head}, rows...) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("cannot write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// EncodeWorkbook writes st to w as a workbook.
func EncodeWorkbook(w io.Writer, st State) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	// the new file comes with a default sheet, reuse it as the first one.
	if err := f.SetSheetName(f.GetSheetName(0), Sheets[0]); err != nil {
		return fmt.Errorf("cannot create sheet %s: %w", Sheets[0], err)
	}
	for _, name := range Sheets[1:] {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("cannot create sheet %s: %w", name, err)
		}
	}

	items := func(list []Item) ([][]any, error) {
		rows := make([][]any, 0, len(list))
		for _, it := range list {
			row, err := itemRow(it)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}
		return rows, nil
	}
	held, err := items(st.Held)
	if err != nil {
		return err
	}
	listed, err := items(st.Listed)
	if err != nil {
		return err
	}
	sold := make([][]any, 0, len(st.Sold))
	for _, s := range st.Sold {
		row, err := itemRow(s.Item)
		if err != nil {
			return err
		}
		sold = append(sold, append(row, number(s.SalePrice), s.SaleMedium))
	}
	history := make([][]any, 0, len(st.Fund.History))
	for _, e := range st.Fund.History {
		history = append(history, []any{e.Date.Format(time.RFC3339Nano), number(e.Amount), e.Reason})
	}

	sections := []struct {
		sheet  string
		header []string
		rows   [][]any
	}{
		{SheetHeld, itemColumns, held},
		{SheetListed, itemColumns, listed},
		{SheetSold, soldColumns, sold},
		{SheetFundSummary, []string{colBalance}, [][]any{{number(st.Fund.Balance)}}},
		{SheetFundHistory, historyColumns, history},
	}
	for _, s := range sections {
		if err := writeSheet(f, s.sheet, s.header, s.rows); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("cannot write workbook: %w", err)
	}
	return nil
}

// table is a decoded sheet: its column index and its data rows.
type table struct {
	sheet string
	index map[string]int
	rows  [][]string
}

// readTable reads sheet, or its legacy name. A missing sheet returns an empty table.
func readTable(f *excelize.File, sheet string) (*table, error) {
	t := &table{sheet: sheet, index: make(map[string]int)}
	present := f.GetSheetList()
	name := sheet
	if !slices.Contains(present, name) {
		name = legacySheets[sheet]
		if !slices.Contains(present, name) {
			return t, nil
		}
	}
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &DecodeError{Section: sheet, Err: err}
	}
	if len(rows) == 0 {
		return t, nil
	}
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		if _, dup := t.index[h]; h != "" && !dup {
			t.index[h] = i
		}
	}
	t.rows = rows[1:]
	return t, nil
}

// each calls fn with a reader for every non blank row.
func (t *table) each(fn func(r *rowReader) error) error {
	for i, row := range t.rows {
		if !slices.ContainsFunc(row, func(c string) bool { return strings.TrimSpace(c) != "" }) {
			continue
		}
		r := &rowReader{section: t.sheet, n: i + 2, index: t.index, row: row}
		if err := fn(r); err != nil {
			return err
		}
		if r.err != nil {
			return r.err
		}
	}
	return nil
}

// rowReader reads typed cells from a row. The first failure is kept in err and
// later reads return zero values.
type rowReader struct {
	section string
	n       int
	index   map[string]int
	row     []string
	err     error
}

func (r *rowReader) has(col string) bool {
	_, ok := r.index[col]
	return ok
}

// cell returns the text of col, joined with its continuation columns.
func (r *rowReader) cell(col string) string {
	text := r.single(col)
	for k := 2; ; k++ {
		next := col + continuation + strconv.Itoa(k)
		if !r.has(next) {
			return text
		}
		text += r.single(next)
	}
}

func (r *rowReader) single(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.row) {
		return ""
	}
	return r.row[i]
}

func (r *rowReader) fail(col string, err error) {
	if r.err == nil {
		r.err = &DecodeError{Section: r.section, Row: r.n, Column: col, Err: err}
	}
}

// number reads a numeric cell, ok is false for an empty cell.
func (r *rowReader) number(col string) (d decimal.Decimal, ok bool) {
	s := strings.TrimSpace(r.cell(col))
	if s == "" || r.err != nil {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		r.fail(col, fmt.Errorf("not a number: %q", s))
		return decimal.Zero, false
	}
	return d, true
}

func (r *rowReader) required(col string) decimal.Decimal {
	d, ok := r.number(col)
	if !ok {
		r.fail(col, errors.New("missing value"))
	}
	return d
}

func (r *rowReader) price(col string) decimal.NullDecimal {
	d, ok := r.number(col)
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func (r *rowReader) integer(col string, def int64) int64 {
	d, ok := r.number(col)
	if !ok {
		return def
	}
	if !d.IsInteger() {
		r.fail(col, fmt.Errorf("not an integer: %s", d))
		return def
	}
	return d.IntPart()
}

// images reads the image references, either a JSON array or, for the first
// layout, a single reference.
func (r *rowReader) images() []string {
	s := strings.TrimSpace(r.cell(colImageURLs))
	if s == "" {
		s = strings.TrimSpace(r.cell(colLegacyImageURL))
	}
	switch {
	case s == "":
		return []string{}
	case strings.HasPrefix(s, "["):
		var urls []string
		if err := json.Unmarshal([]byte(s), &urls); err != nil {
			r.fail(colImageURLs, fmt.Errorf("invalid image list: %w", err))
			return []string{}
		}
		if urls == nil {
			urls = []string{}
		}
		return urls
	default:
		return []string{s}
	}
}

func (r *rowReader) date(col string) time.Time {
	s := strings.TrimSpace(r.cell(col))
	if s == "" || r.err != nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		r.fail(col, fmt.Errorf("invalid date: %q", s))
		return time.Time{}
	}
	return t
}

func (r *rowReader) item() Item {
	it := Item{
		ID:               r.integer(colID, 0),
		Grade:            Grade(r.cell(colGrade)),
		Name:             r.cell(colName),
		Quantity:         int(r.integer(colQuantity, 1)),
		PurchasePrice:    r.price(colPurchasePrice),
		DesiredSalePrice: r.price(colDesiredSalePrice),
		PurchaseLocation: r.cell(colPurchaseLocation),
		Details:          r.cell(colDetails),
		ImageURLs:        r.images(),
		ShippingCost:     r.price(colShippingCost),
		OtherFees:        r.price(colOtherFees),
	}
	if it.Grade == "" {
		it.Grade = GradeUnspecified
	}
	return it
}

func decodeItems(t *table) ([]Item, error) {
	items := make([]Item, 0, len(t.rows))
	err := t.each(func(r *rowReader) error {
		items = append(items, r.item())
		return nil
	})
	return items, err
}

func decodeSold(t *table) ([]SoldItem, error) {
	items := make([]SoldItem, 0, len(t.rows))
	err := t.each(func(r *rowReader) error {
		items = append(items, SoldItem{
			Item:       r.item(),
			SalePrice:  r.required(colSalePrice),
			SaleMedium: r.cell(colSaleMedium),
		})
		return nil
	})
	return items, err
}

func decodeBalance(t *table) (decimal.Decimal, error) {
	col := colBalance
	if _, ok := t.index[col]; !ok {
		col = colLegacyBalance
	}
	balance := decimal.Zero
	found := false
	err := t.each(func(r *rowReader) error {
		if found || !r.has(col) {
			return nil
		}
		found = true
		balance, _ = r.number(col)
		return nil
	})
	return balance, err
}

func decodeHistory(t *table) ([]Entry, error) {
	entries := make([]Entry, 0, len(t.rows))
	err := t.each(func(r *rowReader) error {
		entries = append(entries, Entry{
			Date:   r.date(colDate),
			Amount: r.required(colAmount),
			Reason: r.cell(colReason),
		})
		return nil
	})
	return entries, err
}

// DecodeWorkbook reads a workbook written by EncodeWorkbook, or by the first
// layout of the format.
//
// Missing sheets decode as empty sections. Any malformed content returns a
// *DecodeError.
func DecodeWorkbook(r io.Reader) (State, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return State{}, &DecodeError{Err: err}
	}
	defer f.Close()

	tables := make(map[string]*table, len(Sheets))
	for _, sheet := range Sheets {
		t, err := readTable(f, sheet)
		if err != nil {
			return State{}, err
		}
		tables[sheet] = t
	}

	st := NewState()
	if st.Held, err = decodeItems(tables[SheetHeld]); err != nil {
		return State{}, err
	}
	if st.Listed, err = decodeItems(tables[SheetListed]); err != nil {
		return State{}, err
	}
	if st.Sold, err = decodeSold(tables[SheetSold]); err != nil {
		return State{}, err
	}
	if st.Fund.Balance, err = decodeBalance(tables[SheetFundSummary]); err != nil {
		return State{}, err
	}
	if st.Fund.History, err = decodeHistory(tables[SheetFundHistory]); err != nil {
		return State{}, err
	}
	return st, nil
}
