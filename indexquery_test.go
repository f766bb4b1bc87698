package indexquery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nt "indexquery/entity"
)

// fakeStore serves canned parents with children already grouped, so the
// flatten and back-link logic is checked without a database.
type fakeStore struct {
	parents []*nt.Record
	scope   Scope
}

func (fs *fakeStore) Select(ctx context.Context, scope Scope) ([]*nt.Record, error) {
	fs.scope = scope
	return fs.parents, nil
}

func (fs *fakeStore) SelectChildren(ctx context.Context, scope Scope, relation string) ([]*nt.Record, error) {
	fs.scope = scope
	return fs.parents, nil
}

func post(id int, title string, comments ...*nt.Record) *nt.Record {

	rec := &nt.Record{
		Table: "posts",
		Fields: map[string]nt.Value{
			"id":    {Raw: int64(id)},
			"title": {Raw: title},
		},
	}
	for _, comment := range comments {
		rec.AddChild("comments", comment)
	}
	return rec
}

func comment(id int, body string) *nt.Record {
	return &nt.Record{
		Table: "comments",
		Fields: map[string]nt.Value{
			"id":   {Raw: int64(id)},
			"body": {Raw: body},
		},
	}
}

func TestQueryChildrenFlattens(t *testing.T) {

	first := post(1, "intro", comment(1, "nice"), comment(2, "thanks"))
	second := post(3, "deep dive", comment(3, "more please"))
	childless := post(4, "no comments")

	store := &fakeStore{parents: []*nt.Record{first, second, childless}}

	children, err := QueryChildren(context.Background(), store, "comments",
		From(blogSchema(), "posts"),
		Options{Filters: nt.Values{"title": "d"}},
		func(def *Definition) {
			def.Filter(nt.Path{"title"}, nt.Contains.Key("title"))
		})
	require.NoError(t, err)

	// parent order, then child order within each parent
	require.Len(t, children, 3)
	bodies := []string{}
	for _, child := range children {
		bodies = append(bodies, child.Get("body").String())
	}
	assert.Equal(t, []string{"nice", "thanks", "more please"}, bodies)

	// back-reference points at the loaded parent
	assert.Same(t, first, children[0].Parent)
	assert.Same(t, first, children[1].Parent)
	assert.Same(t, second, children[2].Parent)

	// the filtered scope reached the store
	query, args := store.scope.SQL()
	assert.Contains(t, query, "LIKE ?")
	assert.Equal(t, []any{"%d%"}, args)
}

func TestQueryChildrenPropagatesBuildError(t *testing.T) {

	store := &fakeStore{}

	_, err := QueryChildren(context.Background(), store, "comments",
		From(blogSchema(), "posts"),
		Options{Filters: nt.Values{"title": "d"}},
		func(def *Definition) {
			def.Filter(nt.Path{"title"}, nt.Operator(9000).Key("title"))
		})
	require.Error(t, err)
	assert.ErrorIs(t, err, nt.ErrUnknownOperator)
}
