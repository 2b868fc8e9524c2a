// Package simulate generates synthetic leagues and drives a running standings
// service with them, checking that every table it returns is well formed and
// independent of input order.
package simulate

import "time"

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Divisions  int           // Number of divisions to generate
	Teams      int           // Competitors per division
	Reshuffles int           // Shuffled copies resubmitted per division
	Workers    int           // Concurrent requests in flight
	RPS        float64       // Request rate cap, <= 0 means unlimited
	Timeout    time.Duration // HTTP request timeout
	Seed       uint64        // Generator seed, 0 picks a random one
	OutputFile string        // Optional file receiving the generated divisions
}

// Stats holds run statistics.
type Stats struct {
	DivisionsGenerated int
	Submitted          int
	Successful         int
	Failed             int
	Reshuffled         int
	Mismatches         int
	Violations         int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
