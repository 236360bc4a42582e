// Package janitor убирает осиротевшие рабочие директории CSPP по
// cron-расписанию.
package janitor
