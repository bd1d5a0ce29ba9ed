// Package models contains the GORM database models for the persistence layer.
// Each model maps one table and converts to and from its domain entity with
// ToDomain and FromDomain. Timestamps are stored in UTC.
package models
