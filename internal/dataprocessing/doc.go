// Package dataprocessing implements the merge pipeline for the
// DeltaMaster TopM and Addison exports. It consolidates parsing,
// classification, aggregation and merging into a cohesive package that
// handles the data lifecycle from Excel ingestion to the merged
// per-cost-center report.
//
// # Architecture
//
// The package is organized into four main components:
//
// 1. Parsers: read the TopM and Addison Excel exports into typed rows
// 2. RuleEngine: assigns each TopM row its Modifikation category
// 3. Aggregator: collapses TopM rows to cost-center granularity
// 4. Merger: outer-joins both sides and derives "Aufwendungen final"
//
// # Usage
//
// Basic pipeline example:
//
//	rows, err := dataprocessing.ParseTopMFile("topm.xlsx", logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	classified, err := dataprocessing.NewRuleEngine(logger).ClassifyAll(rows)
//
// All errors are fatal to the run: a single unmapped account code
// aborts the whole report rather than producing a silently wrong one.
package dataprocessing
