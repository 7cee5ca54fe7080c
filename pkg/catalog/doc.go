// Package catalog holds the closed set of operations a planner may pick from.
//
// Only names registered here are ever turned into pipeline steps. Besides the
// operations themselves the catalog keeps an advisory dependency graph
// ("extract_keywords needs clean_text to have run first") and the value kinds
// each operation accepts and produces, so a proposed chain can be checked
// before it runs.
package catalog
