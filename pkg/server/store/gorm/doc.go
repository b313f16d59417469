// Package gorm provides GORM-based implementations of the store interfaces
// defined in the parent store package.
//
// Postgres error codes for unique and foreign key violations are translated
// into the parent package's sentinel errors so endpoints never see driver
// specifics.
package gorm
