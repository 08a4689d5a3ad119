package storage

// Entry is a stored FAQ item. Position is the scan order used by the
// matcher; lower positions are tried first under first-match selection.
type Entry struct {
	ID        string   `json:"id"`
	Question  string   `json:"question"`
	Answer    string   `json:"answer"`
	Keywords  []string `json:"keywords,omitempty"`
	Position  int      `json:"position"`
	CreatedAt int64    `json:"created_at"`
	UpdatedAt int64    `json:"updated_at"`
}

// Synonym maps an informal word or phrase to its canonical form.
// Position is the substitution order; overlapping rules apply lowest first.
type Synonym struct {
	ID        string `json:"id"`
	Synonym   string `json:"synonym"`
	Canonical string `json:"canonical"`
	Position  int    `json:"position"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}
