package wm

// Highlighter tracks which elements are highlighted. Each highlight carries
// a token; a newer highlight on the same element cancels the older token so
// its expiry does nothing.
type Highlighter struct {
	next   uint64
	tokens map[string]uint64
}

// NewHighlighter creates an empty highlighter.
func NewHighlighter() *Highlighter {
	return &Highlighter{tokens: make(map[string]uint64)}
}

// Highlight marks el and returns the token its expiry must present.
func (h *Highlighter) Highlight(el string) uint64 {
	h.next++
	h.tokens[el] = h.next
	return h.next
}

// Expire removes the highlight if token is still the current one for el.
func (h *Highlighter) Expire(el string, token uint64) bool {
	cur, ok := h.tokens[el]
	if !ok || cur != token {
		return false
	}
	delete(h.tokens, el)
	return true
}

// IsHighlighted reports whether el is currently highlighted.
func (h *Highlighter) IsHighlighted(el string) bool {
	_, ok := h.tokens[el]
	return ok
}

// Clear drops every highlight; pending expiries become no-ops.
func (h *Highlighter) Clear() {
	h.tokens = make(map[string]uint64)
}
