package plan

// Book is one book of the canon and its chapter count.
type Book struct {
	Name     string
	Chapters int
}

// Canon is an ordered list of books. Plans are generated by walking the
// canon front to back, so the order here is the reading order.
type Canon []Book

// ChapterRef identifies a single chapter of a book.
type ChapterRef struct {
	Book    string
	Chapter int
}

// defaultCanon is the chronological reading order used by the club.
var defaultCanon = Canon{
	// ── Beginnings & Patriarchs ────────────────────────────────────────────────
	{"Genesis", 50},
	{"Job", 42},
	// ── Exodus & Conquest ──────────────────────────────────────────────────────
	{"Exodus", 40},
	{"Leviticus", 27},
	{"Numbers", 36},
	{"Deuteronomy", 34},
	{"Joshua", 24},
	{"Judges", 21},
	{"Ruth", 4},
	// ── United Kingdom ─────────────────────────────────────────────────────────
	{"1 Samuel", 31},
	{"2 Samuel", 24},
	{"1 Chronicles", 29},
	{"Psalms", 150},
	{"Song of Solomon", 8},
	{"Proverbs", 31},
	{"Ecclesiastes", 12},
	// ── Divided Kingdom ────────────────────────────────────────────────────────
	{"1 Kings", 22},
	{"2 Kings", 25},
	{"2 Chronicles", 36},
	{"Isaiah", 66},
	{"Hosea", 14},
	{"Joel", 3},
	{"Amos", 9},
	{"Obadiah", 1},
	{"Jonah", 4},
	{"Micah", 7},
	{"Nahum", 3},
	{"Habakkuk", 3},
	{"Zephaniah", 3},
	{"Jeremiah", 52},
	{"Lamentations", 5},
	// ── Exile & Return ─────────────────────────────────────────────────────────
	{"Ezekiel", 48},
	{"Daniel", 12},
	{"Esther", 10},
	{"Ezra", 10},
	{"Nehemiah", 13},
	{"Haggai", 2},
	{"Zechariah", 14},
	{"Malachi", 4},
	// ── Gospels ────────────────────────────────────────────────────────────────
	{"Matthew", 28},
	{"Mark", 16},
	{"Luke", 24},
	{"John", 21},
	// ── Early Church ───────────────────────────────────────────────────────────
	{"Acts", 28},
	{"James", 5},
	{"Galatians", 6},
	{"1 Thessalonians", 5},
	{"2 Thessalonians", 3},
	{"1 Corinthians", 16},
	{"2 Corinthians", 13},
	{"Romans", 16},
	{"Ephesians", 6},
	{"Philippians", 4},
	{"Colossians", 4},
	{"Philemon", 1},
	{"1 Peter", 5},
	{"2 Peter", 3},
	{"1 Timothy", 6},
	{"Titus", 3},
	{"Hebrews", 13},
	{"2 Timothy", 4},
	{"Jude", 1},
	{"1 John", 5},
	{"2 John", 1},
	{"3 John", 1},
	{"Revelation", 22},
}

// DefaultCanon returns a copy of the built-in canon.
func DefaultCanon() Canon {
	c := make(Canon, len(defaultCanon))
	copy(c, defaultCanon)
	return c
}

// Total returns the number of chapters across all books.
func (c Canon) Total() int {
	n := 0
	for _, b := range c {
		n += b.Chapters
	}
	return n
}

// Flatten expands the canon into one ChapterRef per chapter, in canon order.
// Chapter numbers are 1-based within each book.
func (c Canon) Flatten() []ChapterRef {
	refs := make([]ChapterRef, 0, c.Total())
	for _, b := range c {
		for ch := 1; ch <= b.Chapters; ch++ {
			refs = append(refs, ChapterRef{Book: b.Name, Chapter: ch})
		}
	}
	return refs
}

func (c Canon) validate() error {
	if len(c) == 0 {
		return ErrEmptyCanon
	}
	for _, b := range c {
		if b.Chapters <= 0 {
			return &CanonError{Book: b.Name, Chapters: b.Chapters}
		}
	}
	return nil
}
