// Package gorm implements the store interfaces on PostgreSQL via GORM.
//
// Idempotent inserts use ON CONFLICT DO NOTHING so that duplicate-key races
// surface as 0 affected rows instead of errors. Reads that shape their own
// SQL use db.Raw; simple row access goes through the GORM query builder.
package gorm
