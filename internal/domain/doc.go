// Package domain models the Michelin-guide restaurant dataset that feeds the
// chart and map views.
//
// # Data Source
//
// The dataset is a header-first delimited table produced by cmd/clean from the
// public one/two/three-star Michelin restaurant lists. Each row arrives as a
// flat mapping of column name to cell text ([RawRow]); the CSV file adapter and
// the Kafka row source both produce this shape. Any column may be absent.
//
// # Column Conventions
//
//	name          restaurant name; the only mandatory column
//	stars         Michelin stars, normally 1-3
//	price_level   price tier as a number ("3") or as currency symbols ("$$$")
//	cuisine       primary cuisine
//	city/country  categorical location labels
//	year          year the stars were awarded; opaque
//	lat/latitude  WGS-84 latitude, "lat" wins when both are present
//	lng/longitude WGS-84 longitude, "lng" wins when both are present
//	address       optional, usually the guide URL
//	description   optional free text, searched by the filter engine
//
// # Coercion Rules
//
// Numeric cells are parsed tolerantly: surrounding whitespace is ignored and a
// leading numeric prefix is accepted ("2 stars" → 2, "3.7" → 3 for integer
// fields). The two fields chart logic depends on fall back to documented
// defaults when unusable:
//
//	stars       → 1 when unparsable or < 1
//	price_level → 1 when unparsable or ≤ 0
//
// Coordinates are never defaulted. An unusable lat/lng becomes NaN so that the
// spatial feed can tell "absent" apart from a real position on the equator.
//
// Missing categorical cells default to "Unknown" (cuisine, city, country) and
// "N/A" (year). A row without a name is rejected with [MalformedRowError].
//
// # Derived Value
//
// Record.Value is stars / price_level, the "value for money" axis of the
// scatter plot. It is computed exactly once, by [Normalize], and is NaN when the
// price level is zero.
package domain
