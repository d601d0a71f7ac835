// Package exporter renders the merged cost-center report. The primary
// output is a styled .xlsx workbook with the designated key columns
// highlighted; an optional CSV sidecar mirrors the same column order.
// Exporting is pure presentation and never alters a value.
package exporter
