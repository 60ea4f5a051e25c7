// Cardpress is a single-server web application that turns spreadsheets of
// bank-card delivery records into printable PDF documents.
//
// Clients upload a workbook, one PDF is generated per record, and both the
// upload and the generated files are deleted automatically once they outlive
// the retention limit.
//
// Usage:
//
//	# Start the server with default configuration
//	cardpress serve
//
//	# Start with a custom configuration file
//	cardpress serve --config /etc/cardpress/config.yaml
//
//	# Render a workbook locally without starting the server
//	cardpress render --file cards.xlsx --kind platinum --out ./pdfs
//
//	# Run a single retention sweep cycle
//	cardpress sweep
//
//	# Show version information
//	cardpress version
package main

func main() {
	Execute()
}
