package catalogue

import (
	"regexp"
	"strconv"
	"strings"

	"coursemap/internal/domain"
)

// Catalogue literals. The source document is the French UV catalogue; these
// anchors are what separates a real record from table-of-contents fragments
// and cross-reference mentions.
const (
	shortDescriptionAnchor = "Description brève"
	keywordsAnchor         = "Mots clés"
	creditsAnchor          = "Crédits"
	nameStopPrefix         = "Description"
)

var (
	termMarkerRe = regexp.MustCompile(`(?m)^(Automne|Printemps)\n`)
	codeLineRe   = regexp.MustCompile(`\n([A-Z]{2,4}[0-9]{1,2})[ \t]+([A-Z][^\n]*)`)
	kindLineRe   = regexp.MustCompile(`(?m)^(CS|TM|TSH|SP)$`)
	creditsRe    = regexp.MustCompile(creditsAnchor + `\s*([0-9]+)`)
	// A line opening with a course code ends a keyword span.
	codeStartRe = regexp.MustCompile(`^[A-Z]{2}[0-9]`)

	descriptionStops = []string{"Diplômant", "Niveau"}
)

// Extract parses the full catalogue text into course records, deduplicated
// by code (first occurrence wins). Parsing is best effort: blocks without
// the structural anchors of a course unit are dropped and only counted. The
// returned int is the number of skipped blocks.
func Extract(text string) ([]domain.CourseRecord, int) {
	records := make([]domain.CourseRecord, 0)
	seen := make(map[string]struct{})
	skipped := 0
	for _, block := range splitTermBlocks(text) {
		rec, ok := parseBlock(block)
		if !ok {
			skipped++
			continue
		}
		if _, dup := seen[rec.Code]; dup {
			// Cross-reference sections repeat records under the same code.
			continue
		}
		seen[rec.Code] = struct{}{}
		records = append(records, rec)
	}
	return records, skipped
}

// splitTermBlocks cuts the text at every line that is exactly a term marker,
// so each block holds at most one record plus trailing boilerplate. Leading
// text before the first marker forms its own block and fails the anchors.
func splitTermBlocks(text string) []string {
	marks := termMarkerRe.FindAllStringIndex(text, -1)
	if len(marks) == 0 {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []string{text}
	}
	var blocks []string
	add := func(s string) {
		if strings.TrimSpace(s) != "" {
			blocks = append(blocks, s)
		}
	}
	add(text[:marks[0][0]])
	for i, m := range marks {
		end := len(text)
		if i+1 < len(marks) {
			end = marks[i+1][0]
		}
		add(text[m[0]:end])
	}
	return blocks
}

// parseBlock runs the anchor detectors over one block. A block is a record
// only when it carries both a code line and the short-description anchor;
// everything else on it is optional.
func parseBlock(block string) (domain.CourseRecord, bool) {
	code, name, ok := detectCode(block)
	if !ok {
		return domain.CourseRecord{}, false
	}
	if !strings.Contains(block, shortDescriptionAnchor) {
		// A bare code mention inside another record's text.
		return domain.CourseRecord{}, false
	}
	rec := domain.CourseRecord{
		Code: code,
		Name: name,
		Term: detectTerm(block),
	}
	if full, ok := detectFullName(block, code); ok {
		rec.Name = full
	}
	rec.Kind = detectKind(block)
	rec.Credits = detectCredits(block)
	rec.Description = detectDescription(block)
	rec.Keywords = detectKeywords(block)
	return rec, true
}

// detectCode finds the first course code line: a short uppercase code
// followed by a name starting with an uppercase letter.
func detectCode(block string) (code, name string, ok bool) {
	m := codeLineRe.FindStringSubmatch(block)
	if m == nil {
		return "", "", false
	}
	return m[1], strings.TrimSpace(m[2]), true
}

func detectTerm(block string) domain.Term {
	switch {
	case strings.HasPrefix(block, string(domain.TermAutumn)):
		return domain.TermAutumn
	case strings.HasPrefix(block, string(domain.TermSpring)):
		return domain.TermSpring
	}
	return ""
}

// detectFullName re-extracts the name starting at the code line, consuming
// lines until one opens with the description keyword. Names regularly wrap
// across lines in the source layout.
func detectFullName(block, code string) (string, bool) {
	loc := codeLineRe.FindStringIndex(block)
	if loc == nil {
		return "", false
	}
	span := block[loc[0]+1:] // past the leading newline
	lines := strings.Split(span, "\n")
	first := strings.TrimSpace(strings.TrimPrefix(lines[0], code))
	parts := []string{first}
	for _, line := range lines[1:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, nameStopPrefix) {
			break
		}
		parts = append(parts, trimmed)
	}
	name := collapse(strings.Join(parts, " "))
	return name, name != ""
}

func detectKind(block string) string {
	if m := kindLineRe.FindStringSubmatch(block); m != nil {
		return m[1]
	}
	return ""
}

func detectCredits(block string) int {
	m := creditsRe.FindStringSubmatch(block)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// detectDescription takes the text after the short-description anchor up to
// the first stop keyword or end of block.
func detectDescription(block string) string {
	_, rest, ok := strings.Cut(block, shortDescriptionAnchor)
	if !ok {
		return ""
	}
	rest = trimAnchorColon(rest)
	end := len(rest)
	for _, stop := range descriptionStops {
		if i := strings.Index(rest, stop); i >= 0 && i < end {
			end = i
		}
	}
	return collapse(rest[:end])
}

// detectKeywords takes the lines after the keywords anchor until a line that
// looks like a new term marker or a new course code.
func detectKeywords(block string) string {
	_, rest, ok := strings.Cut(block, keywordsAnchor)
	if !ok {
		return ""
	}
	rest = trimAnchorColon(rest)
	var parts []string
	for i, line := range strings.Split(rest, "\n") {
		trimmed := strings.TrimSpace(line)
		if i == 0 {
			parts = append(parts, trimmed)
			continue
		}
		if trimmed == "" || isTermMarker(trimmed) || codeStartRe.MatchString(trimmed) {
			break
		}
		parts = append(parts, trimmed)
	}
	return collapse(strings.Join(parts, " "))
}

func isTermMarker(line string) bool {
	return strings.HasPrefix(line, string(domain.TermAutumn)) ||
		strings.HasPrefix(line, string(domain.TermSpring))
}

// trimAnchorColon strips the separator between an anchor and its value,
// tolerating line breaks around the colon.
func trimAnchorColon(s string) string {
	s = strings.TrimLeft(s, " \t\n")
	s = strings.TrimPrefix(s, ":")
	return strings.TrimLeft(s, " \t\n")
}

// collapse squeezes every whitespace run into a single space.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
