package log

import "sort"

// KV represents one set of key-value pairs attached to a log message.
type KV map[string]any

// kvToArgs flattens the first KV into the alternating key, value slice slog
// expects. Extra KVs are ignored. Keys are emitted in sorted order so log
// output is stable.
func kvToArgs(keyVals ...KV) []any {
	args := []any{}
	if len(keyVals) == 0 {
		return args
	}

	kv := keyVals[0]
	keys := make([]string, 0, len(kv))
	for key := range kv {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		args = append(args, key, kv[key])
	}

	return args
}
