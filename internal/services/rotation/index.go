package rotation

import (
	"fmt"

	"github.com/mcoot/linkplay/internal/model"
)

// payloadKey identifies an asset within one epoch
type payloadKey string

func keyFor(kind model.BucketKind, ownerSlug, fileName string, epoch int64) payloadKey {
	return payloadKey(fmt.Sprintf("%s:%s:%s:%d", kind, ownerSlug, fileName, epoch))
}

type tokenEntry struct {
	payload model.RotationPayload
	key     payloadKey
}

// index keeps token -> payload and payload -> token in lockstep.
// All mutation goes through insert and pruneExcept so the two maps
// can never disagree. Not safe for concurrent use on its own.
type index struct {
	byToken map[string]tokenEntry
	byKey   map[payloadKey]string
}

func newIndex() *index {
	return &index{
		byToken: make(map[string]tokenEntry),
		byKey:   make(map[payloadKey]string),
	}
}

func (ix *index) insert(token string, payload model.RotationPayload) {
	key := keyFor(payload.Kind, payload.OwnerSlug, payload.FileName, payload.Epoch)
	ix.byToken[token] = tokenEntry{payload: payload, key: key}
	ix.byKey[key] = token
}

func (ix *index) lookupByToken(token string) (model.RotationPayload, bool) {
	entry, ok := ix.byToken[token]
	return entry.payload, ok
}

func (ix *index) lookupByKey(key payloadKey) (string, bool) {
	token, ok := ix.byKey[key]
	return token, ok
}

// pruneExcept drops every entry not belonging to epoch and returns how many went
func (ix *index) pruneExcept(epoch int64) int {
	pruned := 0
	for token, entry := range ix.byToken {
		if entry.payload.Epoch == epoch {
			continue
		}
		delete(ix.byToken, token)
		delete(ix.byKey, entry.key)
		pruned++
	}
	return pruned
}

func (ix *index) len() int {
	return len(ix.byToken)
}
