// Package stringset holds the normalized form of a parsed translation file,
// the input of the merge engine.
package stringset

// Entry is one (source string, context, plural number, translation) tuple.
type Entry struct {
	SourceText  string
	Context     string
	Number      int // 0 for singular, 1.. for plural forms
	Translation string

	// Metadata carried over from formats that have it (PO references, flags, comments).
	Occurrences      string
	Flags            string
	DeveloperComment string
}

// Stringset is an ordered sequence of entries. The merge engine applies them in order.
type Stringset struct {
	Entries []*Entry
	// TargetLanguage is the language declared inside the file, if any.
	TargetLanguage string
}

func New() *Stringset {
	return &Stringset{Entries: make([]*Entry, 0)}
}

func (s *Stringset) Add(entry *Entry) {
	s.Entries = append(s.Entries, entry)
}

func (s *Stringset) Len() int {
	return len(s.Entries)
}
