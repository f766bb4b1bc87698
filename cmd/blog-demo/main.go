package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/clarktrimble/sabot"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/pkg/errors"

	"indexquery"
	nt "indexquery/entity"
	"indexquery/schema"
	"indexquery/store/duck"
	"indexquery/util"
)

// Demo of composing filtered queries over a small blog dataset.
//
//	blog-demo -title DSL -from 2020-01-01 -to 2020-02-01
//	blog-demo -author Ada -children

var sampleSchema = []byte(`tables:
  posts:
    key: id
    relations:
      - name: comments
        table: comments
        foreign_key: post_id
        many: true
  comments:
    key: id
    relations:
      - name: author
        table: authors
        foreign_key: author_id
  authors:
    key: id
`)

func main() {

	var title, author, from, to, schemaPath string
	var children bool
	flag.StringVar(&title, "title", "", "filter posts whose title contains")
	flag.StringVar(&author, "author", "", "filter posts with a comment by author name")
	flag.StringVar(&from, "from", "", "filter posts posted on or after (yyyy-mm-dd)")
	flag.StringVar(&to, "to", "", "filter posts posted before (yyyy-mm-dd)")
	flag.BoolVar(&children, "children", false, "list comments of matching posts instead")
	flag.StringVar(&schemaPath, "schema", "schema.yaml", "path to schema yaml")
	flag.Parse()

	err := util.SampleConfig(sampleSchema, schemaPath, 0644)
	if err != nil {
		log.Fatal(err)
	}

	sch, err := schema.Load(schemaPath)
	if err != nil {
		log.Fatal(err)
	}

	lgr := &sabot.Sabot{Writer: os.Stderr, MaxLen: 120}

	dk, err := duck.New(lgr, sch)
	if err != nil {
		log.Fatal(err)
	}
	defer dk.Close()

	err = seedBlog(dk.DB())
	if err != nil {
		log.Fatal(err)
	}

	values := nt.Values{}
	setIf(values, "title", title)
	setIf(values, "comment_author_name", author)
	setIf(values, "from_date", from)
	setIf(values, "to_date", to)

	ctx := context.Background()
	opts := indexquery.Options{Filters: values}
	configure := func(def *indexquery.Definition) {
		def.Filter(nt.Path{"title"}, nt.Contains.Key("title"))
		def.Filter(nt.Path{"posted_date"},
			nt.GreaterThanOrEqualTo.Key("from_date"),
			nt.LessThan.Key("to_date"),
		)
		def.Filter(nt.Path{"comments", "author", "name"}, nt.EqualTo.Key("comment_author_name"))
		def.OrderBy("posts.id")
	}

	if children {
		err = listComments(ctx, dk, opts, configure)
	} else {
		err = listPosts(ctx, dk, opts, configure)
	}
	if err != nil {
		lgr.Error(ctx, "query failed", err)
		os.Exit(1)
	}
}

func listPosts(ctx context.Context, dk *duck.Duck, opts indexquery.Options, configure func(*indexquery.Definition)) (err error) {

	scope, err := indexquery.Query(indexquery.From(dk.Schema(), "posts"), opts, configure)
	if err != nil {
		return
	}

	recs, err := dk.Select(ctx, scope)
	if err != nil {
		return
	}

	fmt.Printf("%d matching post(s)\n", len(recs))
	for _, rec := range recs {
		fmt.Printf("  [%s] %s  posted %s\n",
			rec.Get("id"), rec.Get("title"), rec.Get("posted_date"))
	}
	return
}

func listComments(ctx context.Context, dk *duck.Duck, opts indexquery.Options, configure func(*indexquery.Definition)) (err error) {

	comments, err := indexquery.QueryChildren(ctx, dk, "comments",
		indexquery.From(dk.Schema(), "posts"), opts, configure)
	if err != nil {
		return
	}

	fmt.Printf("%d comment(s) on matching posts\n", len(comments))
	for _, rec := range comments {
		fmt.Printf("  [%s] %q on %q\n",
			rec.Get("id"), rec.Get("body"), rec.Parent.Get("title"))
	}
	return
}

func setIf(values nt.Values, key, val string) {
	if val != "" {
		values[key] = val
	}
}

func seedBlog(db *sql.DB) (err error) {

	stmts := []string{
		"CREATE TABLE authors (id INTEGER, name VARCHAR)",
		"CREATE TABLE posts (id INTEGER, title VARCHAR, posted_date DATE, reviewed_by VARCHAR)",
		"CREATE TABLE comments (id INTEGER, post_id INTEGER, author_id INTEGER, body VARCHAR)",
		"INSERT INTO authors VALUES (1, 'Ada'), (2, 'Brin'), (3, 'Cole')",
		`INSERT INTO posts VALUES
			(1, 'Intro to DSL', DATE '2020-01-15', 'Ada'),
			(2, 'Go notes', DATE '2020-03-01', NULL),
			(3, 'DSL deep dive', DATE '2020-01-20', ''),
			(4, 'Query builders compared', DATE '2020-02-11', 'Brin')`,
		`INSERT INTO comments VALUES
			(1, 1, 1, 'nice'),
			(2, 1, 2, 'thanks'),
			(3, 3, 1, 'more please'),
			(4, 2, 2, 'gopher'),
			(5, 4, 3, 'thorough')`,
	}

	for _, stmt := range stmts {
		_, err = db.Exec(stmt)
		if err != nil {
			err = errors.Wrapf(err, "failed to seed blog data")
			return
		}
	}

	return
}
