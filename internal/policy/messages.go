package policy

import "transit_ops/internal/apperrors"

const adminSender = "Admin"

// MessageSender returns the tagged sender string stored on a message.
func MessageSender(c Caller) string {
	if c.Role == RoleParent {
		return "Parent:" + c.Email
	}
	return adminSender
}

// CanMarkRead allows the original sender or any caller that may read every message.
func CanMarkRead(c Caller, sender string) error {
	if sender == MessageSender(c) && c.Role == RoleParent {
		return nil
	}
	if Can(c, ReadAllMessages) {
		return nil
	}
	return apperrors.Authorization("not allowed to mark this message as read")
}

// AdminSender is the sender tag used for staff messages and replies.
func AdminSender() string { return adminSender }
