// Package locker provides per-entity mutual exclusion for check-then-mutate
// sequences. Keys are taken in sorted order so two requests locking the same
// set can never deadlock; a wait that exceeds the budget fails with
// apperr.ErrContention.
package locker

import (
	"context"
	"sort"
	"strconv"
)

type Locker interface {
	Acquire(ctx context.Context, keys ...string) (release func(), err error)
}

func ItemKey(itemID string) string { return "item:" + itemID }

func CardKey(memberID string, year int) string {
	return "card:" + memberID + ":" + strconv.Itoa(year)
}

func CreditKey(memberID string) string { return "credit:" + memberID }

func normalize(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
