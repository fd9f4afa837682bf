package models

// Status is the on-chain verification state of a land record.
type Status string

const (
	StatusNotMinted Status = "not_minted"
	StatusPending   Status = "pending"
	StatusVerified  Status = "verified"
	StatusRejected  Status = "rejected"
)

// Action is a verifier-initiated transition.
type Action string

const (
	ActionMint   Action = "mint"
	ActionVerify Action = "verify"
	ActionReject Action = "reject"
)

// transitions is the complete table of legal moves. Anything absent is illegal.
var transitions = map[Status]map[Action]Status{
	StatusNotMinted: {
		ActionMint:   StatusPending,
		ActionReject: StatusRejected,
	},
	StatusPending: {
		ActionVerify: StatusVerified,
		ActionReject: StatusRejected,
	},
}

// IsValid reports whether s is one of the known states.
func (s Status) IsValid() bool {
	switch s {
	case StatusNotMinted, StatusPending, StatusVerified, StatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no action is possible from s.
func (s Status) IsTerminal() bool {
	return s == StatusVerified || s == StatusRejected
}

// Next returns the state action leads to from s, and whether it is legal.
func (s Status) Next(action Action) (Status, bool) {
	next, ok := transitions[s][action]
	return next, ok
}

// Actions lists the legal actions from s in display order.
func (s Status) Actions() []Action {
	var out []Action
	for _, a := range []Action{ActionMint, ActionVerify, ActionReject} {
		if _, ok := transitions[s][a]; ok {
			out = append(out, a)
		}
	}
	return out
}

// RequiresConfirmation reports whether the action is destructive enough to
// need an explicit confirmation before it is sent.
func (a Action) RequiresConfirmation() bool {
	return a == ActionVerify || a == ActionReject
}
