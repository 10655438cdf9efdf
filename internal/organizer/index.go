package organizer

// hashIndex maps a content hash to the first path seen with it during one pass
type hashIndex struct {
	seen map[string]string
}

func newHashIndex() *hashIndex {
	return &hashIndex{seen: make(map[string]string)}
}

func (h *hashIndex) lookup(hash string) (string, bool) {
	path, ok := h.seen[hash]
	return path, ok
}

// add records hash for path unless the hash is already known
func (h *hashIndex) add(hash, path string) {
	if _, ok := h.seen[hash]; ok {
		return
	}
	h.seen[hash] = path
}
