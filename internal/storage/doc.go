// Package storage persists the subscriber set and the daily report time
// as JSON files in a data directory. Missing files degrade to defaults;
// only unreadable or corrupt files surface errors.
package storage
