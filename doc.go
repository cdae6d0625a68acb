// Package hobby tracks a collection of physical collectible items, typically
// plastic model kits, and the hobby fund that pays for them.
//
// The core functionalities include:
//   - Item Ledger: an Inventory keeps every item in exactly one of three
//     stages, Held, Listed (offered for sale) or Sold, and moves items between
//     them by id.
//   - Fund Ledger: a Fund keeps the cash balance together with an append-only
//     history of reasoned entries. The balance is always the sum of the
//     history; stock value, realized profit and total assets are computed on
//     demand from the Inventory.
//   - Store: the composite that sequences a sale (or its reversal) on both
//     ledgers under a single lock, validates collaborator input and notifies
//     listeners such as a session cache.
//   - Document: the workbook import/export format, five sheets that round-trip
//     the whole state through a spreadsheet file.
//
// Every id-based operation (move, sell, revert, update, delete) is idempotent:
// an unknown id is a silent no-op that reports false, never an error.
//
// This package serves as the foundational logic for the `hb` command-line tool
// and its HTTP API.
package hobby
