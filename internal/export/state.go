package export

// State is the pipeline's current stage.
type State int

const (
	StateIdle State = iota
	StateSnapshotting
	StateRendering
	StateRasterizing
	StateAssembling
	StateDelivered
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSnapshotting:
		return "snapshotting"
	case StateRendering:
		return "rendering"
	case StateRasterizing:
		return "rasterizing"
	case StateAssembling:
		return "assembling"
	case StateDelivered:
		return "delivered"
	default:
		return "unknown"
	}
}
