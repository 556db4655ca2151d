package schema

// GraphStatus is the server-reported state of a graph build request.
type GraphStatus string

// Graph build statuses as reported by the Connected Papers service.
const (
	StatusBadID         GraphStatus = "BAD_ID"
	StatusError         GraphStatus = "ERROR"
	StatusNotInDB       GraphStatus = "NOT_IN_DB"
	StatusOldGraph      GraphStatus = "OLD_GRAPH"
	StatusFreshGraph    GraphStatus = "FRESH_GRAPH"
	StatusInProgress    GraphStatus = "IN_PROGRESS"
	StatusQueued        GraphStatus = "QUEUED"
	StatusBadToken      GraphStatus = "BAD_TOKEN"
	StatusBadRequest    GraphStatus = "BAD_REQUEST"
	StatusOutOfRequests GraphStatus = "OUT_OF_REQUESTS"
	StatusOverloaded    GraphStatus = "OVERLOADED"
)

// terminalStatuses are the statuses after which further polling cannot
// change the outcome. OLD_GRAPH and OVERLOADED are deliberately absent:
// an old graph can still be rebuilt fresh, and an overloaded service can
// recover.
var terminalStatuses = map[GraphStatus]bool{
	StatusBadID:         true,
	StatusError:         true,
	StatusNotInDB:       true,
	StatusFreshGraph:    true,
	StatusBadToken:      true,
	StatusBadRequest:    true,
	StatusOutOfRequests: true,
}

// Terminal reports whether the status ends a retrieval.
func (s GraphStatus) Terminal() bool {
	return terminalStatuses[s]
}
