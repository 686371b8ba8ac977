// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// DateFormat is the calendar-date layout used by the purchase_date column.
const DateFormat = "2006-01-02"

// RequiredColumns lists the columns every stage validates before computing.
// Order matters only for error reporting.
var RequiredColumns = []string{
	"uid",
	"product_name",
	"product_type",
	"purchase_date",
	"purchase_price",
	"long",
	"lat",
}

// Record is one row of the purchase ledger.
type Record struct {
	// UID is the purchasing user's identifier.
	UID string `json:"uid"`

	// Email is the purchasing user's email address.
	Email string `json:"email"`

	// ProductName is the purchased product's display name.
	ProductName string `json:"product_name"`

	// ProductType is the product's category from a fixed closed set.
	ProductType string `json:"product_type"`

	// PurchasePrice is the non-negative unit price.
	PurchasePrice float64 `json:"purchase_price"`

	// PurchaseDate is the calendar date of the purchase.
	PurchaseDate time.Time `json:"purchase_date"`

	// Long and Lat are the store/vendor coordinates in decimal degrees.
	Long float64 `json:"long"`
	Lat  float64 `json:"lat"`

	// Quantity is the number of items purchased. Defaults to 1.
	Quantity int `json:"quantity"`

	// Extra holds values of columns outside the fixed schema (e.g. age).
	// They are preserved on rewrite and never interpreted.
	Extra map[string]string `json:"-"`
}

// Dataset is an in-memory, validated copy of the ledger file.
type Dataset struct {
	// Path is the file the dataset was loaded from.
	Path string

	// Columns is the header row in original order, including extra columns.
	Columns []string

	// Rows holds every purchase row in file order.
	Rows []Record
}

// Load reads and validates the ledger at path.
//
// It fails with *DatasetError if the file cannot be read, contains no data
// rows, is missing any required column, or holds a cell that cannot be
// parsed. A loaded Dataset is safe for read-only use by multiple stages.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DatasetError{Path: path, Reason: fmt.Sprintf("open: %v", err)}
	}
	defer f.Close() //nolint:errcheck // read-only file

	return read(path, f)
}

// read parses CSV content from r, validating schema and cells.
func read(path string, r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, &DatasetError{Path: path, Reason: fmt.Sprintf("parse csv: %v", err)}
	}
	if len(rows) == 0 {
		return nil, &DatasetError{Path: path, Reason: "file is empty"}
	}

	header := rows[0]
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			return nil, &DatasetError{Path: path, Column: col, Reason: "required column is missing"}
		}
	}

	if len(rows) == 1 {
		return nil, &DatasetError{Path: path, Reason: "ledger contains no purchase rows"}
	}

	ds := &Dataset{
		Path:    path,
		Columns: append([]string(nil), header...),
		Rows:    make([]Record, 0, len(rows)-1),
	}

	for n, raw := range rows[1:] {
		rec, err := parseRow(path, header, index, raw, n+2)
		if err != nil {
			return nil, err
		}
		ds.Rows = append(ds.Rows, rec)
	}

	return ds, nil
}

// parseRow converts one CSV row into a Record. lineNo is 1-based including
// the header, matching what a user sees in a text editor.
func parseRow(path string, header []string, index map[string]int, raw []string, lineNo int) (Record, error) {
	cell := func(col string) string {
		i := index[col]
		if i >= len(raw) {
			return ""
		}
		return raw[i]
	}

	badCell := func(col, reason string) error {
		return &DatasetError{Path: path, Column: col, Reason: fmt.Sprintf("line %d: %s", lineNo, reason)}
	}

	rec := Record{
		UID:         cell("uid"),
		ProductName: cell("product_name"),
		ProductType: cell("product_type"),
		Quantity:    1,
	}

	if i, ok := index["email"]; ok && i < len(raw) {
		rec.Email = raw[i]
	}

	date, err := time.Parse(DateFormat, cell("purchase_date"))
	if err != nil {
		return Record{}, badCell("purchase_date", fmt.Sprintf("invalid date %q", cell("purchase_date")))
	}
	rec.PurchaseDate = date

	price, err := strconv.ParseFloat(cell("purchase_price"), 64)
	if err != nil || price < 0 {
		return Record{}, badCell("purchase_price", fmt.Sprintf("invalid price %q", cell("purchase_price")))
	}
	rec.PurchasePrice = price

	long, err := strconv.ParseFloat(cell("long"), 64)
	if err != nil {
		return Record{}, badCell("long", fmt.Sprintf("invalid longitude %q", cell("long")))
	}
	rec.Long = long

	lat, err := strconv.ParseFloat(cell("lat"), 64)
	if err != nil {
		return Record{}, badCell("lat", fmt.Sprintf("invalid latitude %q", cell("lat")))
	}
	rec.Lat = lat

	if i, ok := index["quantity"]; ok && i < len(raw) && raw[i] != "" {
		q, err := strconv.Atoi(raw[i])
		if err != nil || q < 1 {
			return Record{}, badCell("quantity", fmt.Sprintf("invalid quantity %q", raw[i]))
		}
		rec.Quantity = q
	}

	// Preserve columns outside the fixed schema.
	for i, name := range header {
		if isSchemaColumn(name) {
			continue
		}
		if rec.Extra == nil {
			rec.Extra = make(map[string]string)
		}
		if i < len(raw) {
			rec.Extra[name] = raw[i]
		} else {
			rec.Extra[name] = ""
		}
	}

	return rec, nil
}

// schemaColumns is the fixed column set understood by the engine.
var schemaColumns = map[string]struct{}{
	"uid":            {},
	"email":          {},
	"product_name":   {},
	"product_type":   {},
	"purchase_price": {},
	"purchase_date":  {},
	"long":           {},
	"lat":            {},
	"quantity":       {},
}

func isSchemaColumn(name string) bool {
	_, ok := schemaColumns[name]
	return ok
}

// HasUser reports whether uid has at least one purchase row.
func (d *Dataset) HasUser(uid string) bool {
	for i := range d.Rows {
		if d.Rows[i].UID == uid {
			return true
		}
	}
	return false
}

// RowsForUser returns uid's rows in file order.
func (d *Dataset) RowsForUser(uid string) []Record {
	var out []Record
	for i := range d.Rows {
		if d.Rows[i].UID == uid {
			out = append(out, d.Rows[i])
		}
	}
	return out
}

// Users returns the distinct uids in order of first appearance.
func (d *Dataset) Users() []string {
	seen := make(map[string]struct{}, len(d.Rows))
	var out []string
	for i := range d.Rows {
		uid := d.Rows[i].UID
		if _, ok := seen[uid]; ok {
			continue
		}
		seen[uid] = struct{}{}
		out = append(out, uid)
	}
	return out
}

// MaxPurchaseDate returns the latest purchase_date across the whole ledger.
// This is the deterministic "now" used by RFM recency.
func (d *Dataset) MaxPurchaseDate() time.Time {
	var maxDate time.Time
	for i := range d.Rows {
		if d.Rows[i].PurchaseDate.After(maxDate) {
			maxDate = d.Rows[i].PurchaseDate
		}
	}
	return maxDate
}

// cellValue renders a record's value for a named column when writing.
func (r *Record) cellValue(col string) string {
	switch col {
	case "uid":
		return r.UID
	case "email":
		return r.Email
	case "product_name":
		return r.ProductName
	case "product_type":
		return r.ProductType
	case "purchase_price":
		return strconv.FormatFloat(r.PurchasePrice, 'f', -1, 64)
	case "purchase_date":
		return r.PurchaseDate.Format(DateFormat)
	case "long":
		return strconv.FormatFloat(r.Long, 'f', -1, 64)
	case "lat":
		return strconv.FormatFloat(r.Lat, 'f', -1, 64)
	case "quantity":
		return strconv.Itoa(r.Quantity)
	default:
		return r.Extra[col]
	}
}
