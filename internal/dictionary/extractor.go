package dictionary

import (
	"regexp"
	"strings"

	"github.com/alexanderramin/whittle/internal/domain"
)

// Extractor pulls named dictionary blocks out of free-form model output.
type Extractor interface {
	Extract(text string) []domain.DictionaryBlock
}

var (
	// Any fenced region, tagged or not. Used when no solver-tagged block exists.
	anyFenceRe = regexp.MustCompile("(?s)```[A-Za-z0-9_+.-]*[ \t]*\r?\n(.*?)```")

	// Name declarations start with a word character so "object ..;" can never
	// resolve outside the target directory.
	objectDeclRe = regexp.MustCompile(`\bobject\s+(\w[\w.]*)\s*;`)
)

// FenceExtractor scans for fenced blocks labelled with one of the solver's
// fence tags and names each block after its "object <name>;" declaration.
type FenceExtractor struct {
	taggedRe *regexp.Regexp
}

// NewFenceExtractor builds an extractor for the given fence tags. The first
// tag is the one prompts ask the model to use; the rest are accepted aliases.
func NewFenceExtractor(tags ...string) *FenceExtractor {
	quoted := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			quoted = append(quoted, regexp.QuoteMeta(tag))
		}
	}
	e := &FenceExtractor{}
	if len(quoted) > 0 {
		e.taggedRe = regexp.MustCompile("(?s)```(?:" + strings.Join(quoted, "|") + ")[ \t]*\r?\n(.*?)```")
	}
	return e
}

// Extract returns one block per declared name. When a name repeats, the later
// block's content replaces the earlier one but keeps its position. Blocks
// without a declaration are dropped.
func (e *FenceExtractor) Extract(text string) []domain.DictionaryBlock {
	bodies := e.fencedBodies(text)

	var blocks []domain.DictionaryBlock
	index := make(map[string]int)
	for _, body := range bodies {
		name, ok := DeclaredName(body)
		if !ok {
			continue
		}
		if i, seen := index[name]; seen {
			blocks[i].Content = body
			continue
		}
		index[name] = len(blocks)
		blocks = append(blocks, domain.DictionaryBlock{Name: name, Content: body})
	}
	return blocks
}

func (e *FenceExtractor) fencedBodies(text string) []string {
	var matches [][]string
	if e.taggedRe != nil {
		matches = e.taggedRe.FindAllStringSubmatch(text, -1)
	}
	if len(matches) == 0 {
		matches = anyFenceRe.FindAllStringSubmatch(text, -1)
	}
	bodies := make([]string, 0, len(matches))
	for _, m := range matches {
		bodies = append(bodies, m[1])
	}
	return bodies
}

// DeclaredName returns the name from the first "object <name>;" line in body.
func DeclaredName(body string) (string, bool) {
	m := objectDeclRe.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	return m[1], true
}
