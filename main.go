// =============================================================================
// QRIS Dynamic Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the QRIS Dynamic Converter CLI. It hands
// control to the Cobra command tree in the cmd package.
//
// USAGE:
//   qris convert   - Convert a static payload into a dynamic payload
//   qris merchant  - Print the merchant name of a payload
//   qris inspect   - Decode a payload and report problems
//   qris batch     - Convert the CSV/XLSX files in the input directory
//   qris history   - Manage recently used static payloads
//   qris version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/qris  : Payload codec, checksum and conversion
//   - internal/      : Collaborators (config, logging, history, render, batch)
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/qris-dynamic/cmd"
)

func main() {
	cmd.Execute()
}
