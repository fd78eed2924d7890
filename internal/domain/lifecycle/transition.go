package lifecycle

// Trigger tells whether a transition was requested by a user or performed by
// the system as a side effect of another operation.
type Trigger int

const (
	TriggerUser Trigger = iota
	TriggerResultRecorded
)

type edge struct {
	from BookingStatus
	to   BookingStatus
}

type rule struct {
	methods    []Method
	kitGate    []KitStatus
	systemOnly bool
}

var transitions = map[edge]rule{
	{BookingAwaitingCheckIn, BookingCheckedIn}: {
		methods: []Method{MethodFacility},
	},
	{BookingCheckedIn, BookingInProgress}: {
		methods: []Method{MethodFacility},
		kitGate: []KitStatus{KitSampleCollected, KitArrivedAtStorage},
	},
	{BookingAwaitingSample, BookingInProgress}: {
		methods: []Method{MethodSelfCollect},
		kitGate: []KitStatus{KitArrivedAtStorage},
	},
	{BookingInProgress, BookingCompleted}: {
		systemOnly: true,
	},
}

// CheckTransition decides whether a booking may move from one status to
// another. kit is nil when the booking has no kit yet.
func CheckTransition(from, to BookingStatus, method Method, kit *KitStatus, trigger Trigger) error {
	if from == to {
		return nil
	}
	if from.Terminal() {
		return &RejectionError{From: from, To: to, Reason: ErrTerminalStatus}
	}
	if to == BookingCancelled {
		return nil
	}
	if kit == nil && kitGated(to) {
		return &RejectionError{From: from, To: to, Reason: ErrKitMissing}
	}

	r, ok := transitions[edge{from: from, to: to}]
	if !ok {
		return &RejectionError{From: from, To: to, Reason: ErrTransitionNotFound}
	}
	if r.systemOnly && trigger != TriggerResultRecorded {
		return &RejectionError{From: from, To: to, Reason: ErrSystemOnly}
	}
	if len(r.methods) > 0 && !containsMethod(r.methods, method) {
		return &RejectionError{From: from, To: to, Reason: ErrWrongMethod}
	}
	if len(r.kitGate) > 0 && !containsKitStatus(r.kitGate, *kit) {
		return &RejectionError{From: from, To: to, Reason: ErrKitNotReady}
	}
	return nil
}

func kitGated(to BookingStatus) bool {
	for e, r := range transitions {
		if e.to == to && len(r.kitGate) > 0 {
			return true
		}
	}
	return false
}

func containsMethod(items []Method, value Method) bool {
	for _, item := range items {
		if item == value {
			return true
		}
	}
	return false
}

func containsKitStatus(items []KitStatus, value KitStatus) bool {
	for _, item := range items {
		if item == value {
			return true
		}
	}
	return false
}
