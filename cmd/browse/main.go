package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/clarktrimble/sabot"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/pkg/errors"

	"indexquery"
	nt "indexquery/entity"
	"indexquery/schema"
	"indexquery/store/duck"
	"indexquery/util"
)

// Browse matching posts in a table, filtered from the command line.
//
//	browse -title DSL
//	browse -author Ada -from 2020-01-01

var columns = []string{"id", "title", "posted_date", "reviewed_by"}

type Model struct {
	dk          *duck.Duck
	opts        indexquery.Options
	recs        []*nt.Record
	selectedRow int
	width       int
	height      int
	err         error
}

type loadDataMsg struct {
	recs []*nt.Record
	err  error
}

func main() {

	var title, author, from, to string
	flag.StringVar(&title, "title", "", "filter posts whose title contains")
	flag.StringVar(&author, "author", "", "filter posts with a comment by author name")
	flag.StringVar(&from, "from", "", "filter posts posted on or after (yyyy-mm-dd)")
	flag.StringVar(&to, "to", "", "filter posts posted before (yyyy-mm-dd)")
	flag.Parse()

	file := util.OpenLog("browse.log", 0644)
	defer util.CloseLog(file)
	lgr := &sabot.Sabot{Writer: file, MaxLen: 120}

	sch := blogSchema()
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

	model := Model{
		dk:   dk,
		opts: indexquery.Options{Filters: values},
	}

	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadData()
}

func (m Model) loadData() tea.Cmd {
	return func() tea.Msg {

		scope, err := indexquery.Query(indexquery.From(m.dk.Schema(), "posts"), m.opts,
			func(def *indexquery.Definition) {
				def.Filter(nt.Path{"title"}, nt.Contains.Key("title"))
				def.Filter(nt.Path{"posted_date"},
					nt.GreaterThanOrEqualTo.Key("from_date"),
					nt.LessThan.Key("to_date"),
				)
				def.Filter(nt.Path{"comments", "author", "name"}, nt.EqualTo.Key("comment_author_name"))
				def.OrderBy("posts.id")
			})
		if err != nil {
			return loadDataMsg{err: err}
		}

		recs, err := m.dk.Select(context.Background(), scope)
		return loadDataMsg{recs: recs, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case loadDataMsg:
		m.recs = msg.recs
		m.err = msg.err
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.selectedRow > 0 {
				m.selectedRow--
			}
		case "down", "j":
			if m.selectedRow < len(m.recs)-1 {
				m.selectedRow++
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

func (m Model) View() tea.View {

	if m.err != nil {
		return tea.NewView("Error: " + m.err.Error())
	}
	if len(m.recs) == 0 {
		return tea.NewView("No matching posts (q to quit)")
	}

	t := table.New()
	t.Headers(columns...)

	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == m.selectedRow {
			return lipgloss.NewStyle().Background(lipgloss.Color("63"))
		}
		return lipgloss.NewStyle()
	})

	for _, rec := range m.recs {
		row := []string{}
		for _, col := range columns {
			row = append(row, rec.Get(col).String())
		}
		t.Row(row...)
	}

	t.Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240")))

	v := tea.NewView(t.Render())
	v.AltScreen = true
	return v
}

func setIf(values nt.Values, key, val string) {
	if val != "" {
		values[key] = val
	}
}

func blogSchema() *schema.Schema {
	return &schema.Schema{
		Tables: map[string]schema.Table{
			"posts": {
				Key: "id",
				Relations: []schema.Relation{
					{Name: "comments", Table: "comments", ForeignKey: "post_id", Many: true},
				},
			},
			"comments": {
				Key: "id",
				Relations: []schema.Relation{
					{Name: "author", Table: "authors", ForeignKey: "author_id"},
				},
			},
			"authors": {Key: "id"},
		},
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
