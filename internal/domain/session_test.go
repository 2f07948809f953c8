package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidDictionaryTypes_CoversAllConstants(t *testing.T) {
	for _, dt := range []DictionaryType{DictSystem, DictConstant, DictInitialCondition, DictUnknown} {
		assert.True(t, ValidDictionaryTypes[string(dt)], "missing %s", dt)
	}
	assert.Len(t, ValidDictionaryTypes, 4)
}
