package ffmpeg

// Opt is one ffmpeg flag/value pair. Option sets from different concerns
// (container defaults, segment params, hardware profile) are combined with
// [Merge] before being flattened into argv.
type Opt struct {
	Key   string // Flag including the leading dash, e.g. "-preset".
	Value string
}

// Merge combines option sets in ascending precedence order: on a key
// collision the later set's value wins, while the key keeps the position of
// its first occurrence. The result is deterministic for a given input order.
//
// Precedence convention across the codebase:
//
//	container/format defaults < derived segment params < hardware profile
func Merge(sets ...[]Opt) []Opt {
	var merged []Opt
	index := make(map[string]int)

	for _, set := range sets {
		for _, o := range set {
			if i, ok := index[o.Key]; ok {
				merged[i].Value = o.Value
				continue
			}
			index[o.Key] = len(merged)
			merged = append(merged, o)
		}
	}
	return merged
}

// Args flattens option pairs into an argument slice.
func Args(opts []Opt) []string {
	args := make([]string, 0, 2*len(opts))
	for _, o := range opts {
		args = append(args, o.Key, o.Value)
	}
	return args
}
