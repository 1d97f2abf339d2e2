// Package audit turns before/after entity snapshots into the change payload
// of an audit record.
package audit

import (
	"bytes"
	"encoding/json"
)

// metadataKeys are excluded from diffs: they always differ between versions
// and carry no business information.
var metadataKeys = map[string]struct{}{
	"id":         {},
	"created_at": {},
	"created_by": {},
	"updated_at": {},
	"updated_by": {},
}

// Diff compares two flat field snapshots and returns the changed keys mapped
// to {"old": ..., "new": ...}. Values are compared by canonical JSON
// serialization so nested maps and slices compare by content.
//
// An empty result means nothing observable changed; the caller must then
// skip writing an audit record entirely.
func Diff(before, after map[string]any) map[string]any {
	changes := make(map[string]any)

	for key := range before {
		if _, skip := metadataKeys[key]; skip {
			continue
		}
		if !equalValues(before[key], after[key]) {
			changes[key] = map[string]any{"old": before[key], "new": after[key]}
		}
	}
	for key := range after {
		if _, skip := metadataKeys[key]; skip {
			continue
		}
		if _, seen := before[key]; seen {
			continue
		}
		if !equalValues(nil, after[key]) {
			changes[key] = map[string]any{"old": nil, "new": after[key]}
		}
	}

	return changes
}

func equalValues(a, b any) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ja, jb)
}
