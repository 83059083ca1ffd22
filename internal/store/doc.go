// Package store is the SQLite index behind parameter searches.
//
// Each row says one Pokémon matches one parameter of one mod, e.g.
// (gen7, type, Fire, growlithe). A search is an INTERSECT of one SELECT per
// parameter.
//
// # Query Rules
//
//   - Every query filters by mod; mods never share rows.
//   - Every result set is ORDER BY ... COLLATE BINARY so searches are
//     reproducible from a seed.
//   - Values are always bound parameters, never interpolated.
//
// # Database Configuration
//
// The default database is ":memory:" behind a single connection, since
// every connection to ":memory:" sees its own empty database.
package store
