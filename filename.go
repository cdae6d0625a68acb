package hobby

import (
	"path/filepath"
	"strings"
	"time"
)

// WorkbookExt is the extension of exported documents.
const WorkbookExt = ".xlsx"

// stampLayout is the timestamp prefix of exported documents, e.g. "250723_163000".
const stampLayout = "060102_150405"

// ExportFileName returns the name of a document exported at now for the base
// name base, e.g. "250723_163000_my_kits.xlsx".
func ExportFileName(base string, now time.Time) string {
	return now.Format(stampLayout) + "_" + base + WorkbookExt
}

// BaseName recovers the base name from a document file name, removing the
// directory, the extension and the export timestamp.
//
// It never fails: a name without a valid timestamp prefix is returned whole,
// minus its extension.
func BaseName(filename string) string {
	name := filepath.Base(filename)
	if strings.HasSuffix(strings.ToLower(name), WorkbookExt) {
		name = name[:len(name)-len(WorkbookExt)]
	}
	if len(name) <= len(stampLayout)+1 || name[len(stampLayout)] != '_' {
		return name
	}
	if _, err := time.Parse(stampLayout, name[:len(stampLayout)]); err != nil {
		return name
	}
	return name[len(stampLayout)+1:]
}
