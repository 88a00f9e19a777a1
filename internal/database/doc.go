// Package database provides SQLite-based storage for netreport's query log.
//
// Every executed report query is recorded locally: the time window,
// operator, KPI and dimension selection, how many rows came back, and
// how long the fetch took. The `netreport history` command reads this
// log, which makes it easy to re-run past queries and to see which
// reports are worth putting in the config file as defaults.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
