// Package persistence provides database repository implementations.
// It uses GORM as the ORM layer against PostgreSQL (Supabase) in production
// and SQLite for local runs and tests, covering sessions, invalidation
// history, graceful schedules, notifications, member data, packages,
// wallet transactions and security events.
package persistence
