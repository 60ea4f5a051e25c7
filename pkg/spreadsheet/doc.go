// Package spreadsheet parses uploaded card-delivery workbooks.
//
// Real upload files arrive with inconsistent column headers ("Cardholder
// Name" vs "Name", "Delivery Location" vs "Delivery Address"), so parsing
// normalizes every header onto a canonical field name before rows reach the
// renderer. Fully empty rows are dropped, cell values are trimmed, and the
// original cell grid is kept alongside the keyed rows for table-style
// rendering.
package spreadsheet
