// Package sqlstore implements schema.Repository on SQLite through
// database/sql and the pure Go modernc.org/sqlite driver.
//
// Column metadata comes from PRAGMA table_info and relations from PRAGMA
// foreign_key_list. Declared types are read MySQL style, so a column declared
// as enum('draft','live') or tinyint(1) configures the same widgets it would
// on MySQL. SQLite keeps no column comments; supply them, along with the
// timestamp columns, through WithTables.
package sqlstore
