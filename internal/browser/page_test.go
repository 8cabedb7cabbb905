package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSStringEscapes(t *testing.T) {
	assert.Equal(t, `"plain"`, jsString("plain"))
	assert.Equal(t, `"with \"quotes\""`, jsString(`with "quotes"`))
	assert.Equal(t, `"line\nbreak"`, jsString("line\nbreak"))
}

func TestJSFindDispatchesOnSelectorGrammar(t *testing.T) {
	assert.Equal(t, `document.querySelector("#email")`, jsFind("#email"))
	assert.Contains(t, jsFind(`[name="city"]`), "document.querySelector")
	assert.Contains(t, jsFind("//input[1]"), "document.evaluate")
	assert.Contains(t, jsFind("/html/body/form/input[2]"), "XPathResult.FIRST_ORDERED_NODE_TYPE")
}
