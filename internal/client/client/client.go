package client

import "context"

// ResultsClient is what the CLI needs from the results API.
type ResultsClient interface {
	Ping(ctx context.Context) error
	Summary(ctx context.Context) (*Summary, error)
	HasResponded(ctx context.Context, email string) (bool, error)
	Close() error
}

// Summary is the decoded chart data of the active survey.
type Summary struct {
	Variant  string
	Title    string
	Chart    string
	Total    int
	Counts   map[string]int
	Averages map[string]float64
	Mine     map[string]float64
}
