package dictionary

import (
	"github.com/alexanderramin/whittle/internal/casedir"
	"github.com/alexanderramin/whittle/internal/domain"
)

// Classifier maps dictionary names to categories and categories to directories.
type Classifier interface {
	Classify(name string) domain.DictionaryType
	TargetDir(category domain.DictionaryType) string
}

// SetClassifier classifies by static set membership. Names in neither set
// fall through to DictConstant; DictUnknown is never produced here.
type SetClassifier struct {
	paths   casedir.PathResolver
	system  map[string]struct{}
	initial map[string]struct{}
}

// NewSetClassifier builds a classifier over the given system and
// initial-condition name sets.
func NewSetClassifier(paths casedir.PathResolver, system, initial []string) *SetClassifier {
	return &SetClassifier{
		paths:   paths,
		system:  toSet(system),
		initial: toSet(initial),
	}
}

func (c *SetClassifier) Classify(name string) domain.DictionaryType {
	if _, ok := c.system[name]; ok {
		return domain.DictSystem
	}
	if _, ok := c.initial[name]; ok {
		return domain.DictInitialCondition
	}
	return domain.DictConstant
}

func (c *SetClassifier) TargetDir(category domain.DictionaryType) string {
	switch category {
	case domain.DictSystem:
		return c.paths.SystemDir()
	case domain.DictInitialCondition:
		return c.paths.InitialDir()
	default:
		return c.paths.ConstantDir()
	}
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
