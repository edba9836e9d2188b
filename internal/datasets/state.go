package datasets

// State is a stage of the ingestion pipeline.
type State string

// Ingestion states. Failed is reachable from every non-terminal state;
// Dispatched is the only successful terminal state.
const (
	StateIdle                      State = "idle"
	StateReplacingPriorDataset     State = "replacing_prior_dataset"
	StateExtracting                State = "extracting"
	StateDiscoveringFolders        State = "discovering_folders"
	StatePartitioningAndPersisting State = "partitioning_and_persisting"
	StateCleaningUp                State = "cleaning_up"
	StateDispatched                State = "dispatched"
	StateFailed                    State = "failed"
)

var transitions = map[State]State{
	StateIdle:                      StateReplacingPriorDataset,
	StateReplacingPriorDataset:     StateExtracting,
	StateExtracting:                StateDiscoveringFolders,
	StateDiscoveringFolders:        StatePartitioningAndPersisting,
	StatePartitioningAndPersisting: StateCleaningUp,
	StateCleaningUp:                StateDispatched,
}

// Terminal reports whether s ends the pipeline.
func (s State) Terminal() bool {
	return s == StateDispatched || s == StateFailed
}

// Next returns the successor of s on the success path.
func (s State) Next() (State, bool) {
	next, ok := transitions[s]
	return next, ok
}

// CanTransition reports whether the pipeline may move from s to to.
func (s State) CanTransition(to State) bool {
	if s.Terminal() {
		return false
	}
	if to == StateFailed {
		return true
	}
	next, ok := s.Next()
	return ok && next == to
}
