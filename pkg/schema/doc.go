// Package schema defines the record side of a form binding: column metadata,
// belongs-to relations, and the Record/Repository seams a form manager reads
// columns from and writes accepted values back to. The sqlstore package ships a
// database/sql implementation; tests use the in-memory fakes in testsupport.
package schema
