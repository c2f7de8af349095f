// Command quercus loads a YAML dataset into an in-memory triple store
// and runs a SPARQL SELECT query against it, printing the solution as an
// aligned table.
//
//	quercus --data cast.yaml --query 'SELECT ?s ?o WHERE {?s v:fn ?o}'
//	quercus --data cast.yaml < query.rq
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	flags "github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/quercusdb/quercus/pkg/rdf"
	"github.com/quercusdb/quercus/pkg/sparql"
	"github.com/quercusdb/quercus/pkg/store"
)

type options struct {
	Data  string `short:"d" long:"data" description:"YAML dataset to load" required:"true"`
	Query string `short:"q" long:"query" description:"SPARQL SELECT query (reads stdin when omitted)"`
	File  string `short:"f" long:"file" description:"file containing the query"`
}

// dataset is the on-disk shape of a store: namespace declarations plus
// subjects with typed entries.
type dataset struct {
	Namespaces []struct {
		Prefix string `yaml:"prefix"`
		Path   string `yaml:"path"`
	} `yaml:"namespaces"`
	Subjects []struct {
		Subject string  `yaml:"subject"`
		Entries []entry `yaml:"entries"`
	} `yaml:"subjects"`
}

type entry struct {
	Predicate string `yaml:"predicate"`

	String   *string  `yaml:"string"`
	Lang     string   `yaml:"lang"`
	Int      *int64   `yaml:"int"`
	Float    *float64 `yaml:"float"`
	Bool     *bool    `yaml:"bool"`
	IRI      *string  `yaml:"iri"`
	Blank    *string  `yaml:"blank"`
	DateTime *string  `yaml:"dateTime"`
	Typed    *struct {
		Value    string `yaml:"value"`
		Datatype string `yaml:"datatype"`
	} `yaml:"typed"`
}

func (e entry) value() (rdf.Value, error) {
	switch {
	case e.String != nil:
		return rdf.String(*e.String, e.Lang), nil
	case e.Int != nil:
		return rdf.Int(*e.Int), nil
	case e.Float != nil:
		return rdf.Float(*e.Float), nil
	case e.Bool != nil:
		return rdf.Bool(*e.Bool), nil
	case e.IRI != nil:
		return rdf.IRI(*e.IRI), nil
	case e.Blank != nil:
		return rdf.Blank(*e.Blank), nil
	case e.DateTime != nil:
		v := rdf.LiteralToValue(*e.DateTime, rdf.XSDDateTime, "")
		if v.IsError() {
			return v, errors.Errorf("bad dateTime %q", *e.DateTime)
		}
		return v, nil
	case e.Typed != nil:
		return rdf.Typed(e.Typed.Value, e.Typed.Datatype), nil
	default:
		return rdf.Unbound(), errors.Errorf("entry for %s has no value", e.Predicate)
	}
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}

	st, err := loadDataset(opts.Data)
	if err != nil {
		log.Fatalf("loading %s: %v", opts.Data, err)
	}

	query, err := readQuery(opts)
	if err != nil {
		log.Fatalf("reading query: %v", err)
	}

	selector, err := sparql.Compile(query)
	if err != nil {
		log.Fatalf("compiling query: %v", err)
	}
	selector.Now = time.Now()

	solution, err := selector.Select(st)
	if err != nil {
		log.Fatalf("executing query: %v", err)
	}

	printSolution(os.Stdout, solution)
}

func loadDataset(path string) (*store.Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read")
	}
	var ds dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return nil, errors.Wrap(err, "parse")
	}

	namespaces := make([]store.Namespace, len(ds.Namespaces))
	for i, ns := range ds.Namespaces {
		namespaces[i] = store.Namespace{Prefix: ns.Prefix, Path: ns.Path}
	}
	st := store.New(namespaces, nil)

	for _, subj := range ds.Subjects {
		entries := make([]store.Entry, len(subj.Entries))
		for i, e := range subj.Entries {
			v, err := e.value()
			if err != nil {
				return nil, errors.Wrapf(err, "subject %s", subj.Subject)
			}
			entries[i] = store.Entry{Predicate: e.Predicate, Object: v}
		}
		st.Add(subj.Subject, entries)
	}
	return st, nil
}

func readQuery(opts options) (string, error) {
	switch {
	case opts.Query != "":
		return opts.Query, nil
	case opts.File != "":
		raw, err := os.ReadFile(opts.File)
		if err != nil {
			return "", errors.Wrap(err, "read")
		}
		return string(raw), nil
	default:
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", errors.Wrap(err, "stdin")
		}
		if strings.TrimSpace(string(raw)) == "" {
			return "", errors.New("no query given (use --query, --file, or stdin)")
		}
		return string(raw), nil
	}
}

func printSolution(w io.Writer, solution *store.Solution) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	header := solution.Bindings
	if solution.NumSelected < len(header) {
		header = header[:solution.NumSelected]
	}
	cols := make([]string, len(header))
	for i, name := range header {
		cols[i] = "?" + name
	}
	fmt.Fprintln(tw, strings.Join(cols, "\t"))

	for r := range solution.Rows {
		cells := make([]string, 0, len(header))
		for c := range header {
			cells = append(cells, store.FriendlyString(solution.Namespaces, solution.Rows[r][c]))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	tw.Flush()
	fmt.Fprintf(w, "%d rows\n", len(solution.Rows))
}
