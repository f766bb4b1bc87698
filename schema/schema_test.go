package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blogSchema() *Schema {
	return &Schema{
		Tables: map[string]Table{
			"posts": {
				Key: "id",
				Relations: []Relation{
					{Name: "comments", Table: "comments", ForeignKey: "post_id", Many: true},
				},
			},
			"comments": {
				Relations: []Relation{
					{Name: "author", Table: "authors", ForeignKey: "author_id"},
				},
			},
			"authors": {},
		},
	}
}

func TestValidate(t *testing.T) {

	require.NoError(t, blogSchema().Validate())

	bad := blogSchema()
	bad.Tables["posts"] = Table{
		Relations: []Relation{{Name: "tags", Table: "tags", ForeignKey: "post_id", Many: true}},
	}
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown table "tags"`)

	bad = blogSchema()
	bad.Tables["posts"] = Table{
		Relations: []Relation{{Name: "comments", Table: "comments"}},
	}
	err = bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no foreign key")
}

func TestLookups(t *testing.T) {

	sch := blogSchema()

	rel, err := sch.Relation("posts", "comments")
	require.NoError(t, err)
	assert.True(t, rel.Many)
	assert.Equal(t, "post_id", rel.ForeignKey)

	_, err = sch.Relation("posts", "reviewers")
	require.Error(t, err)

	_, err = sch.Table("nope")
	require.Error(t, err)

	tbl, err := sch.Table("comments")
	require.NoError(t, err)
	assert.Equal(t, "id", tbl.KeyColumn())
}

func TestLoad(t *testing.T) {

	data := []byte(`
tables:
  posts:
    key: id
    relations:
      - name: comments
        table: comments
        foreign_key: post_id
        many: true
  comments: {}
`)

	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))

	sch, err := Load(path)
	require.NoError(t, err)

	rel, err := sch.Relation("posts", "comments")
	require.NoError(t, err)
	assert.Equal(t, "comments", rel.Table)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
