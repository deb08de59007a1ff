package redisx

import "fmt"

const ns = "bookgo:v1"

func KeyProgramList(bookingType string, includePast bool, page, pageSize int) string {
	return fmt.Sprintf("%s:programs:%s:%t:%d:%d", ns, bookingType, includePast, page, pageSize)
}

func KeyProgramAvailability(programID string) string {
	return fmt.Sprintf("%s:program:%s:availability", ns, programID)
}

func KeyDraft(userID string) string {
	return fmt.Sprintf("%s:draft:%s:pendingBooking", ns, userID)
}

func KeyDraftAttachment(userID string) string {
	return fmt.Sprintf("%s:draft:%s:pendingAudioBlob", ns, userID)
}

func KeyRateLimit(scope, id string) string {
	return fmt.Sprintf("%s:rl:%s:%s", ns, scope, id)
}

func ChannelProgramsChanged() string {
	return ns + ":programs:changed"
}
