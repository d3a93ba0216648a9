// Package store persists scenario analysis runs in SQLite.
//
// The schema is managed by golang-migrate from SQL files embedded in the
// binary, so a fresh database file is usable immediately after Open.
//
// Tables:
//   - runs: one row per analysis run
//   - proximity: ranked neighbour distances per ego vehicle
//   - curvature: the resampled path curvature profile
package store
