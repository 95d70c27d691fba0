// Package database provides a GORM sqlite connection with retrying startup,
// a zerolog-backed query logger, error translation into AppErrors and a
// lifecycle component that applies embedded migrations.
package database
