// Package workspace holds the workspace service's records as seen by the
// enrichment step: the opaque 9-tuple info, narrative summaries and user
// profiles.
package workspace

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// InfoLen is the length of a complete workspace info tuple.
const InfoLen = 9

// Positions inside the info tuple.
const (
	infoID = iota
	infoName
	infoOwner
	infoModDate
	infoMaxObjID
	infoUserPerm
	infoGlobalPerm
	infoLockStatus
	infoMetadata
)

// DateLayout is the workspace service's timestamp format.
const DateLayout = "2006-01-02T15:04:05-0700"

// Info is the tuple (id, name, owner, moddate, max_objid, user_permission,
// global_permission, lockstat, metadata). It is passed through to callers
// unchanged and never reordered.
type Info []any

// Complete reports whether the tuple has all nine positions and a numeric id.
func (i Info) Complete() bool {
	if len(i) < InfoLen {
		return false
	}
	_, ok := i.id()
	return ok
}

func (i Info) id() (int64, bool) {
	if len(i) <= infoID {
		return 0, false
	}
	return toInt(i[infoID])
}

// Owner returns the owner's username.
func (i Info) Owner() string {
	return i.str(infoOwner)
}

// ModDate returns the last modification date as sent by the service.
func (i Info) ModDate() string {
	return i.str(infoModDate)
}

// Metadata returns the workspace metadata map, or nil.
func (i Info) Metadata() map[string]any {
	if len(i) <= infoMetadata {
		return nil
	}
	m, _ := i[infoMetadata].(map[string]any)
	return m
}

// IsNarrative reports whether the workspace holds a narrative.
func (i Info) IsNarrative() bool {
	_, ok := i.Metadata()["narrative"]
	return ok
}

func (i Info) str(pos int) string {
	if len(i) <= pos {
		return ""
	}
	s, _ := i[pos].(string)
	return s
}

// NarrativeInfo summarizes the narrative of one workspace. It is rendered as
// the array [title, object_id, modified_at_ms, owner, owner_realname].
type NarrativeInfo struct {
	Title         string
	ObjectID      int64
	ModifiedAt    int64
	Owner         string
	OwnerRealName string
}

// MarshalJSON implements json.Marshaler.
func (n NarrativeInfo) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{n.Title, n.ObjectID, n.ModifiedAt, n.Owner, n.OwnerRealName})
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NarrativeInfo) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) != 5 {
		return fmt.Errorf("narrative info: want 5 elements, got %d", len(raw))
	}
	targets := []any{&n.Title, &n.ObjectID, &n.ModifiedAt, &n.Owner, &n.OwnerRealName}
	for idx, t := range targets {
		if err := json.Unmarshal(raw[idx], t); err != nil {
			return fmt.Errorf("narrative info [%d]: %w", idx, err)
		}
	}
	return nil
}

// UserProfile is the subset of a user profile used for display names.
type UserProfile struct {
	Username string
	RealName string
}

// EpochMillis converts a workspace service date to epoch milliseconds.
func EpochMillis(date string) (int64, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return 0, fmt.Errorf("parse workspace date %q: %w", date, err)
	}
	return t.UnixMilli(), nil
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case float64:
		return int64(n), n == float64(int64(n))
	case int64:
		return n, true
	case int:
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}
