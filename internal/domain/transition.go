package domain

import "fmt"

var transitions = map[ActionKind][]Status{
	ActionEdit:    {StatusPending, StatusEditing, StatusApproved},
	ActionApprove: {StatusPending, StatusEditing},
	ActionReject:  {StatusPending, StatusEditing, StatusApproved},
	ActionPublish: {StatusPending, StatusEditing, StatusApproved},
}

var targets = map[ActionKind]Status{
	ActionEdit:    StatusEditing,
	ActionApprove: StatusApproved,
	ActionReject:  StatusRejected,
	ActionPublish: StatusPublished,
}

// Allowed reports whether action may run against an item in status from.
func Allowed(from Status, action ActionKind) bool {
	for _, s := range transitions[action] {
		if s == from {
			return true
		}
	}
	return false
}

// Target returns the status an action leads to.
func Target(action ActionKind) Status {
	return targets[action]
}

// CheckTransition returns an InvalidTransition error when action is illegal from status from.
func CheckTransition(from Status, action ActionKind) error {
	if _, known := transitions[action]; !known {
		return NewError(ErrInvalidTransition, string(action), fmt.Sprintf("unknown action %q", action))
	}
	if Allowed(from, action) {
		return nil
	}
	if from.Terminal() {
		return NewError(ErrInvalidTransition, string(action), fmt.Sprintf("item is %s and can no longer change", from))
	}
	return NewError(ErrInvalidTransition, string(action), fmt.Sprintf("cannot %s an item that is %s", action, from))
}
