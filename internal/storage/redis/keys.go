package redis

import (
	"fmt"

	"github.com/mcoot/linkplay/internal/model"
)

// Key prefix for all linkplay data
const keyPrefix = "linkplay"

// userKey returns the Redis key for a User
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

// registeredUserKey returns the Redis key for a RegisteredUser
func registeredUserKey(userID model.UserID) string {
	return fmt.Sprintf("%s:registered_user:%s", keyPrefix, userID)
}

// usernameIndexKey returns the Redis key for the username -> user_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// notificationsKey returns the Redis key for a user's notification LIST
func notificationsKey(userID model.UserID) string {
	return fmt.Sprintf("%s:notifications:%s", keyPrefix, userID)
}

// embedPrefsKey returns the Redis key for the operator embed defaults
func embedPrefsKey() string {
	return fmt.Sprintf("%s:embed_prefs", keyPrefix)
}

// gameRecordKey returns the Redis key for a finished game
func gameRecordKey(id model.GameID) string {
	return fmt.Sprintf("%s:game_record:%s", keyPrefix, id)
}
