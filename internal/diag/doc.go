// Package diag defines the THR-series diagnostic codes of the throws generator and the reporter collecting them.
//
// Codes follow the format "THR<NNN>: <Name>":
//
//	001–009  Usage errors: wrong targets, arguments and marker placement
//	010–019  Warnings about markers and the linter findings
//
// Error severity diagnostics stop the generation of the file they were found in: there is no partial output.
// Warnings are printed and the generation goes on.
//
// Typical output:
//
//	[expand] THR001: UnsupportedTarget: attribute can only be applied to functions, methods, closures or async blocks (pkg/file.go:12:1)
//
// Codes are stable, never renumber existing ones.
package diag
