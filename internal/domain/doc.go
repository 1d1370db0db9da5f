// Package domain models power-outage news records collected from Taiwanese
// news coverage.
//
// # Data Source
//
// Records originate from a news search provider (Google News RSS by default)
// queried one calendar month at a time with the boolean query
// `"停電" AND "戶"` ("outage" AND "households"), restricted to zh-Hant / TW.
// Each provider item carries at least a title, an RFC-822 publish date and a
// URL. See [RawNewsItem].
//
// # Conventions
//
// Publish date format:
//
//	"<weekday>, <day> <month-abbrev> <year> <HH:MM:SS> <zone>"
//	e.g. "Fri, 05 Jul 2024 10:00:00 GMT"
//	Only the calendar date as written is kept; the zone is not applied.
//
// Stored date format:
//
//	ISO "YYYY-MM-DD". See [Date].
//
// Annotations:
//
//	households, locations and reason are curated by hand after fetching.
//	Locations must be county/city names from the canonical boundary set
//	(e.g. "臺南市"); this is checked by validation, not at construction.
//
// Cause symbols:
//
//	A reason string maps to one emoji through an ordered keyword table.
//	Groups are scanned in declaration order and the first group with a keyword
//	contained in the reason wins, so "因施工不慎挖斷電纜" is 🚧 (construction)
//	even though "電纜" also belongs to 🔌 (electrical equipment).
//	An unmatched reason yields [NoMatch].
package domain
