package models

import "time"

// Discrepancy is an account whose balance does not match its history
type Discrepancy struct {
	AccountID string `json:"accountId"`
	Expected  int    `json:"expected"`
	Actual    int    `json:"actual"`
	Fixed     bool   `json:"fixed"`
}

// ReconciliationReport summarizes one reconciliation pass
type ReconciliationReport struct {
	StartedAt     time.Time     `json:"startedAt"`
	FinishedAt    time.Time     `json:"finishedAt"`
	Scanned       int           `json:"scanned"`
	Skipped       int           `json:"skipped"`
	Discrepancies []Discrepancy `json:"discrepancies"`
}
