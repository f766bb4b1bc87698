package indexquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeDerivesWithoutMutating(t *testing.T) {

	base := From(blogSchema(), "posts").Where("posts.published = ?", true)

	left := base.Where("posts.title = ?", "one")
	right := base.Where("posts.title = ?", "two")

	baseQuery, baseArgs := base.SQL()
	assert.Equal(t, "SELECT posts.* FROM posts WHERE posts.published = ?", baseQuery)
	assert.Equal(t, []any{true}, baseArgs)

	leftQuery, _ := left.SQL()
	rightQuery, _ := right.SQL()
	assert.Equal(t, "SELECT posts.* FROM posts WHERE posts.published = ? AND posts.title = ?", leftQuery)
	assert.Equal(t, rightQuery, leftQuery)
}

func TestScopeJoinDedupes(t *testing.T) {

	clause := "JOIN comments ON comments.post_id = posts.id"
	scope := From(blogSchema(), "posts").Join(clause).Join(clause)

	query, _ := scope.SQL()
	assert.Equal(t, "SELECT DISTINCT posts.* FROM posts JOIN comments ON comments.post_id = posts.id", query)
}

func TestScopeOrderReplaces(t *testing.T) {

	scope := From(blogSchema(), "posts").Order("title").Order("posted_date DESC")

	query, _ := scope.SQL()
	assert.Equal(t, "SELECT posts.* FROM posts ORDER BY posted_date DESC", query)
}

func TestScopeColumnSharedJoin(t *testing.T) {

	// two paths through the same relation join once
	scope := From(blogSchema(), "posts")

	col, scope, err := scope.column([]string{"comments", "body"})
	require.NoError(t, err)
	assert.Equal(t, "comments.body", col)

	col, scope, err = scope.column([]string{"comments", "author", "name"})
	require.NoError(t, err)
	assert.Equal(t, "authors.name", col)

	query, _ := scope.SQL()
	assert.Equal(t, "SELECT DISTINCT posts.* FROM posts"+
		" JOIN comments ON comments.post_id = posts.id"+
		" JOIN authors ON authors.id = comments.author_id", query)
}

func TestScopeColumnEmptyPath(t *testing.T) {

	_, _, err := From(blogSchema(), "posts").column(nil)
	require.Error(t, err)
}
