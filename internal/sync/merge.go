package sync

// MergeByID reconciles a local and a remote sequence keyed by id: remote
// entries replace local entries sharing an id, local-only entries are kept,
// remote-only entries are appended in remote order. The result order is
// deterministic so repeated merges with unchanged inputs are idempotent.
func MergeByID[T any](local, remote []T, id func(T) string) []T {
	replacement := make(map[string]T, len(remote))
	for _, r := range remote {
		replacement[id(r)] = r
	}

	seen := make(map[string]struct{}, len(local))
	out := make([]T, 0, len(local)+len(remote))

	for _, l := range local {
		key := id(l)
		seen[key] = struct{}{}

		if r, ok := replacement[key]; ok {
			out = append(out, r)
		} else {
			out = append(out, l)
		}
	}

	for _, r := range remote {
		if _, ok := seen[id(r)]; !ok {
			out = append(out, r)
		}
	}

	return out
}
