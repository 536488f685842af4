package ports

// SearchRequest is one search as submitted by the CLI or the HTTP API.
type SearchRequest struct {
	Source   string       // where Text came from, recorded with the run
	Text     []byte       // the materialized text
	Patterns []string     // ordered pattern set
	Engine   string       // engine name; "" selects "aho"
	Options  MatchOptions // alphabet, policy, limits

	SuppressAdjacent bool // drop offsets directly following a kept one
	Verify           bool // cross-check the result against the naive engine
	NoHistory        bool // do not record the run
}
