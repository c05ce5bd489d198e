package simulator

type state int

const (
	stateNone state = iota
	stateBooting
	stateRunning
	stateAsleep
	stateStopped
)

func (s state) String() string {
	switch s {
	case stateBooting:
		return "Booting"
	case stateRunning:
		return "Running"
	case stateAsleep:
		return "Asleep"
	case stateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}
