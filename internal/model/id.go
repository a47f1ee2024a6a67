package model

import "regexp"

// 7TV ids come in two formats: the legacy MongoDB ObjectID and the
// current ULID. The global emote set uses the literal id "global".
var (
	objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
	ulidPattern     = regexp.MustCompile(`^[0-7][0-9A-HJKMNP-TV-Z]{25}$`)
)

// GlobalSetID is the id of the shared global emote set.
const GlobalSetID = "global"

// ValidID reports whether id is a well-formed 7TV identifier.
func ValidID(id string) bool {
	return objectIDPattern.MatchString(id) || ulidPattern.MatchString(id) || id == GlobalSetID
}
