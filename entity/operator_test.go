package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperatorString(t *testing.T) {

	assert.Equal(t, "equal_to", EqualTo.String())
	assert.Equal(t, "greater_than_or_equal_to", GreaterThanOrEqualTo.String())
	assert.Equal(t, "present", Present.String())
	assert.Equal(t, "operator(42)", Operator(42).String())
}

func TestOperatorKey(t *testing.T) {

	binding := Contains.Key("title")
	assert.Equal(t, Binding{Op: Contains, Key: "title"}, binding)
}

func TestPathString(t *testing.T) {

	assert.Equal(t, "comments.author.name", Path{"comments", "author", "name"}.String())
	assert.Equal(t, "title", Path{"title"}.String())
}
