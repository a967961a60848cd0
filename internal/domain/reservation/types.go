package reservation

type Status string

const (
	StatusPending   Status = "pending"
	StatusReserved  Status = "reserved"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// transitions is the single authority on legal status moves. Everything not
// listed here is rejected.
var transitions = map[Status][]Status{
	StatusPending:   {StatusReserved, StatusConfirmed, StatusCancelled},
	StatusReserved:  {StatusConfirmed, StatusCancelled, StatusExpired},
	StatusConfirmed: {StatusCompleted},
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusReserved, StatusConfirmed,
		StatusCompleted, StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0 && s.IsValid()
}

// Blocks reports whether a reservation in this status counts toward
// schedule-conflict detection. Pending blocks provisionally so concurrent
// checkouts cannot both pass the conflict check.
func (s Status) Blocks() bool {
	switch s {
	case StatusPending, StatusReserved, StatusConfirmed, StatusCompleted:
		return true
	default:
		return false
	}
}

func BlockingStatuses() []Status {
	return []Status{StatusPending, StatusReserved, StatusConfirmed, StatusCompleted}
}
