package sparql_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quercusdb/quercus/pkg/rdf"
	"github.com/quercusdb/quercus/pkg/sparql"
	"github.com/quercusdb/quercus/pkg/store"
)

func got(s string) string  { return "http://awoiaf.westeros.org/index.php/" + s }
func v(s string) string    { return "http://www.w3.org/2006/vcard/ns#" + s }
func wiki(s string) string { return "http://en.wikipedia.org/wiki/" + s }

func gotNamespaces() []store.Namespace {
	return []store.Namespace{
		{Prefix: "got", Path: "http://awoiaf.westeros.org/index.php/"},
		{Prefix: "v", Path: "http://www.w3.org/2006/vcard/ns#"},
	}
}

// gotCast1 is the two-triple store behind the basic-match scenarios.
func gotCast1() *store.Store {
	st := store.New(gotNamespaces(), nil)
	st.Add("got:Eddard_Stark", []store.Entry{
		{Predicate: "v:fn", Object: rdf.String("Eddard Stark", "")},
		{Predicate: "v:nickname", Object: rdf.String("Ned", "")},
	})
	return st
}

// gotCast3 adds two more subjects plus blank-node organisations.
func gotCast3() *store.Store {
	st := store.New(gotNamespaces(), nil)
	st.Add("got:Eddard_Stark", []store.Entry{
		{Predicate: "v:fn", Object: rdf.String("Eddard Stark", "")},
		{Predicate: "v:nickname", Object: rdf.String("Ned", "")},
		{Predicate: "v:honorific-prefix", Object: rdf.String("Lord", "")},
	})
	st.AddAggregate("got:Eddard_Stark", "v:org", "ned-org", []store.Entry{
		{Predicate: "v:organisation-name", Object: rdf.String("Small Council", "")},
		{Predicate: "v:organisation-unit", Object: rdf.String("Hand", "")},
	})
	st.Add("got:Jon_Snow", []store.Entry{
		{Predicate: "v:fn", Object: rdf.String("Jon Snow", "")},
		{Predicate: "v:nickname", Object: rdf.String("Lord Snow", "")},
		{Predicate: "v:pet", Object: rdf.String("Ghost", "")},
	})
	st.AddAggregate("got:Jon_Snow", "v:org", "jon-org", []store.Entry{
		{Predicate: "v:organisation-name", Object: rdf.String("Night's Watch", "")},
		{Predicate: "v:organisation-unit", Object: rdf.String("Stewards", "")},
	})
	st.Add("got:Sandor_Clegane", []store.Entry{
		{Predicate: "v:fn", Object: rdf.String("Sandor Clegane", "")},
		{Predicate: "v:nickname", Object: rdf.String("The Hound", "")},
	})
	return st
}

// withAges extends gotCast3 with one v:age per subject.
func withAges(eddard, jon, sandor int64) *store.Store {
	st := gotCast3()
	st.Add("got:Eddard_Stark", []store.Entry{{Predicate: "v:age", Object: rdf.Int(eddard)}})
	st.Add("got:Jon_Snow", []store.Entry{{Predicate: "v:age", Object: rdf.Int(jon)}})
	st.Add("got:Sandor_Clegane", []store.Entry{{Predicate: "v:age", Object: rdf.Int(sandor)}})
	return st
}

func animals() *store.Store {
	st := store.New([]store.Namespace{{Prefix: "wiki", Path: "http://en.wikipedia.org/wiki/"}}, nil)
	add := func(subject, phylum, class, family string, extra ...store.Entry) {
		entries := []store.Entry{
			{Predicate: "wiki:phylum", Object: rdf.String(phylum, "")},
			{Predicate: "wiki:class", Object: rdf.String(class, "")},
			{Predicate: "wiki:family", Object: rdf.String(family, "")},
		}
		st.Add(subject, append(entries, extra...))
	}
	add("wiki:aardvark", "chordata", "mammalia", "orycteropodidae")
	add("wiki:black_widow", "arthropoda", "arachnida", "theridiidae")
	add("wiki:firefly", "arthropoda", "insecta", "lampyridae")
	add("wiki:giraffe", "chordata", "mammalia", "giraffidae",
		store.Entry{Predicate: "wiki:habitat", Object: rdf.String("savannah", "")})
	add("wiki:grizzly", "chordata", "mammalia", "ursidae")
	add("wiki:salmon", "chordata", "actinopterygii", "salmonidae")
	return st
}

func selectRows(t *testing.T, st *store.Store, query string) *store.Solution {
	t.Helper()
	selector, err := sparql.Compile(query)
	require.NoError(t, err)
	solution, err := selector.Select(st)
	require.NoError(t, err)
	return solution
}

func selectErr(t *testing.T, st *store.Store, query string) error {
	t.Helper()
	selector, err := sparql.Compile(query)
	if err != nil {
		return err
	}
	_, err = selector.Select(st)
	require.Error(t, err)
	return err
}

func str(s string) rdf.Value { return rdf.String(s, "") }

func TestSelect_Trivial(t *testing.T) {
	solution := selectRows(t, gotCast1(), "SELECT ?s ?p ?o WHERE {?s ?p ?o}")
	assert.Equal(t, []string{"s", "p", "o"}, solution.Bindings)
	assert.Equal(t, 3, solution.NumSelected)
	assert.Equal(t, [][]rdf.Value{
		{rdf.IRI(got("Eddard_Stark")), rdf.IRI(v("fn")), str("Eddard Stark")},
		{rdf.IRI(got("Eddard_Stark")), rdf.IRI(v("nickname")), str("Ned")},
	}, solution.Rows)
}

func TestSelect_OutOfOrderProjection(t *testing.T) {
	solution := selectRows(t, gotCast1(), "SELECT ?o ?s ?p WHERE {?s ?p ?o}")
	assert.Equal(t, []string{"o", "s", "p"}, solution.Bindings)
	assert.Equal(t, [][]rdf.Value{
		{str("Eddard Stark"), rdf.IRI(got("Eddard_Stark")), rdf.IRI(v("fn"))},
		{str("Ned"), rdf.IRI(got("Eddard_Stark")), rdf.IRI(v("nickname"))},
	}, solution.Rows)
}

func TestSelect_UnusedVariableStaysUnbound(t *testing.T) {
	solution := selectRows(t, gotCast1(), "SELECT ?s ?p ?z WHERE {?s ?p ?o}")
	assert.Equal(t, []string{"s", "p", "z", "o"}, solution.Bindings)
	assert.Equal(t, 3, solution.NumSelected)
	require.Len(t, solution.Rows, 2)
	for _, row := range solution.Rows {
		require.Len(t, row, 3)
		assert.Equal(t, rdf.Unbound(), row[2])
	}
}

func TestSelect_NoMatch(t *testing.T) {
	solution := selectRows(t, gotCast1(), `SELECT ?s ?p WHERE {?s ?p "Peter Pan"}`)
	assert.Empty(t, solution.Rows)
	assert.Equal(t, []string{"s", "p"}, solution.Bindings)
}

func TestSelect_DuplicateSelectVariables(t *testing.T) {
	_, err := sparql.Compile("SELECT ?s ?s ?o WHERE {?s ?p ?o}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicates: s")
}

func TestSelect_DuplicateWhereVariables(t *testing.T) {
	err := selectErr(t, gotCast1(), "SELECT ?s ?p ?o WHERE {?s ?s ?o}")
	assert.Equal(t, "Binding ?s was set more than once.", err.Error())
}

func TestSelect_SimplePath(t *testing.T) {
	query := `SELECT ?org
	WHERE {
		<http://awoiaf.westeros.org/index.php/Eddard_Stark> <http://www.w3.org/2006/vcard/ns#org> ?z .
		?z <http://www.w3.org/2006/vcard/ns#organisation-name> ?org
	}`
	solution := selectRows(t, gotCast3(), query)
	assert.Equal(t, []string{"org", "z"}, solution.Bindings)
	assert.Equal(t, 1, solution.NumSelected)
	assert.Equal(t, [][]rdf.Value{{str("Small Council")}}, solution.Rows)
}

func TestSelect_Prefixes(t *testing.T) {
	query := `PREFIX got: <http://awoiaf.westeros.org/index.php/>
	PREFIX v: <http://www.w3.org/2006/vcard/ns#>
	SELECT ?org
	WHERE {
		got:Eddard_Stark v:org ?z .
		?z v:organisation-name ?org
	}`
	solution := selectRows(t, gotCast3(), query)
	assert.Equal(t, [][]rdf.Value{{str("Small Council")}}, solution.Rows)
}

func TestSelect_Wildcard(t *testing.T) {
	query := `SELECT * WHERE {
		<http://awoiaf.westeros.org/index.php/Sandor_Clegane> ?p ?o
	}`
	solution := selectRows(t, gotCast3(), query)
	assert.Equal(t, []string{"p", "o"}, solution.Bindings)
	assert.Equal(t, 2, solution.NumSelected)
	assert.Equal(t, [][]rdf.Value{
		{rdf.IRI(v("fn")), str("Sandor Clegane")},
		{rdf.IRI(v("nickname")), str("The Hound")},
	}, solution.Rows)
}

func TestSelect_OptionalPreservesLeftRows(t *testing.T) {
	query := `PREFIX v: <http://www.w3.org/2006/vcard/ns#>
	SELECT ?name ?title
	WHERE {
		?s v:fn ?name .
		OPTIONAL { ?s v:honorific-prefix ?title }
	}`
	solution := selectRows(t, gotCast3(), query)
	assert.Equal(t, []string{"name", "title", "s"}, solution.Bindings)
	assert.Equal(t, [][]rdf.Value{
		{str("Eddard Stark"), str("Lord")},
		{str("Jon Snow"), rdf.Unbound()},
		{str("Sandor Clegane"), rdf.Unbound()},
	}, solution.Rows)
}

func TestSelect_TwoOptionals(t *testing.T) {
	query := `PREFIX v: <http://www.w3.org/2006/vcard/ns#>
	SELECT ?name ?title ?pet
	WHERE {
		?s v:fn ?name .
		OPTIONAL {?s v:honorific-prefix ?title} .
		OPTIONAL {?s v:pet ?pet}
	}`
	solution := selectRows(t, gotCast3(), query)
	assert.Equal(t, [][]rdf.Value{
		{str("Eddard Stark"), str("Lord"), rdf.Unbound()},
		{str("Jon Snow"), rdf.Unbound(), str("Ghost")},
		{str("Sandor Clegane"), rdf.Unbound(), rdf.Unbound()},
	}, solution.Rows)
}

func TestSelect_OptionalAfterDeadGroup(t *testing.T) {
	query := `PREFIX v: <http://www.w3.org/2006/vcard/ns#>
	SELECT ?name ?bogus ?pet
	WHERE {
		?s v:fn ?name .
		?s v:bogus ?bogus .
		OPTIONAL {?s v:pet ?pet}
	}`
	solution := selectRows(t, gotCast3(), query)
	assert.Equal(t, []string{"name", "bogus", "pet", "s"}, solution.Bindings)
	assert.Empty(t, solution.Rows)
}

func TestSelect_FilterArithmetic(t *testing.T) {
	query := `PREFIX v: <http://www.w3.org/2006/vcard/ns#>
	SELECT ?s
	WHERE {
		?s v:age ?age .
		FILTER (?age = 18 + 5 - 4)
	}`
	solution := selectRows(t, withAges(45, 19, 35), query)
	assert.Equal(t, [][]rdf.Value{{rdf.IRI(got("Jon_Snow"))}}, solution.Rows)
}

func TestSelect_FilterTypedLiteral(t *testing.T) {
	query := `PREFIX xsd: <http://www.w3.org/2001/XMLSchema#>
	PREFIX v: <http://www.w3.org/2006/vcard/ns#>
	SELECT ?s
	WHERE {
		?s v:age ?age .
		FILTER (?age = "19"^^xsd:integer)
	}`
	solution := selectRows(t, withAges(45, 19, 35), query)
	assert.Equal(t, [][]rdf.Value{{rdf.IRI(got("Jon_Snow"))}}, solution.Rows)
}

func TestSelect_FilterOnUnboundVariableDropsRows(t *testing.T) {
	query := `PREFIX v: <http://www.w3.org/2006/vcard/ns#>
	SELECT ?s
	WHERE {
		?s v:age ?age .
		FILTER (?agge = 19)
	}`
	solution := selectRows(t, withAges(45, 19, 35), query)
	assert.Empty(t, solution.Rows)
}

func TestSelect_FilterBound(t *testing.T) {
	query := `PREFIX v: <http://www.w3.org/2006/vcard/ns#>
	SELECT ?s
	WHERE {
		?s v:age ?age .
		FILTER (BOUND (?age) && ?age = 19)
	}`
	solution := selectRows(t, withAges(45, 19, 35), query)
	assert.Equal(t, [][]rdf.Value{{rdf.IRI(got("Jon_Snow"))}}, solution.Rows)
}

func TestSelect_FilterIf(t *testing.T) {
	query := `PREFIX got: <http://awoiaf.westeros.org/index.php/>
	PREFIX v: <http://www.w3.org/2006/vcard/ns#>
	SELECT ?s
	WHERE {
		?s v:age ?age .
		FILTER IF(?s = got:Eddard_Stark, ?age = 45, ?age = 19)
	}`
	solution := selectRows(t, withAges(45, 19, 35), query)
	assert.Equal(t, [][]rdf.Value{
		{rdf.IRI(got("Eddard_Stark"))},
		{rdf.IRI(got("Jon_Snow"))},
	}, solution.Rows)
}

func TestSelect_FilterCoalesceSkipsUnbound(t *testing.T) {
	query := `PREFIX v: <http://www.w3.org/2006/vcard/ns#>
	SELECT ?s
	WHERE {
		?s v:age ?age .
		FILTER (COALESCE(?x, ?age) = 19)
	}`
	solution := selectRows(t, withAges(45, 19, 35), query)
	assert.Equal(t, [][]rdf.Value{{rdf.IRI(got("Jon_Snow"))}}, solution.Rows)
}

func TestSelect_FilterStr(t *testing.T) {
	query := `PREFIX v: <http://www.w3.org/2006/vcard/ns#>
	SELECT ?s
	WHERE {
		?s v:age ?age .
		FILTER (STR(?age) = "19")
	}`
	solution := selectRows(t, withAges(45, 19, 35), query)
	assert.Equal(t, [][]rdf.Value{{rdf.IRI(got("Jon_Snow"))}}, solution.Rows)
}

func TestSelect_FilterContains(t *testing.T) {
	query := `PREFIX v: <http://www.w3.org/2006/vcard/ns#>
	SELECT ?s
	WHERE {
		?s v:age ?age .
		FILTER CONTAINS(STR(?s), "_S")
	}`
	solution := selectRows(t, withAges(45, 19, 35), query)
	assert.Equal(t, [][]rdf.Value{
		{rdf.IRI(got("Eddard_Stark"))},
		{rdf.IRI(got("Jon_Snow"))},
	}, solution.Rows)
}

func TestSelect_FilterAbs(t *testing.T) {
	query := `PREFIX v: <http://www.w3.org/2006/vcard/ns#>
	SELECT ?s
	WHERE {
		?s v:age ?age .
		FILTER (ABS(?age) = 19)
	}`
	solution := selectRows(t, withAges(45, -19, 35), query)
	assert.Equal(t, [][]rdf.Value{{rdf.IRI(got("Jon_Snow"))}}, solution.Rows)
}

func TestSelect_FilterInsideOptional(t *testing.T) {
	query := `PREFIX v: <http://www.w3.org/2006/vcard/ns#>
	SELECT ?name ?nick
	WHERE {
		?s v:fn ?name .
		OPTIONAL {?s v:nickname ?nick . FILTER CONTAINS(?nick, " ")}
	}`
	solution := selectRows(t, gotCast3(), query)
	assert.Equal(t, [][]rdf.Value{
		{str("Eddard Stark"), rdf.Unbound()},
		{str("Jon Snow"), str("Lord Snow")},
		{str("Sandor Clegane"), str("The Hound")},
	}, solution.Rows)
}

func TestSelect_OrderBy(t *testing.T) {
	query := `SELECT ?s ?o
	WHERE {
		?s ?p ?o .
		FILTER (!ISBLANK(?s) && !ISBLANK(?o))
	} ORDER BY ?s ?o`
	solution := selectRows(t, gotCast3(), query)
	assert.Equal(t, [][]rdf.Value{
		{rdf.IRI(got("Eddard_Stark")), str("Eddard Stark")},
		{rdf.IRI(got("Eddard_Stark")), str("Lord")},
		{rdf.IRI(got("Eddard_Stark")), str("Ned")},
		{rdf.IRI(got("Jon_Snow")), str("Ghost")},
		{rdf.IRI(got("Jon_Snow")), str("Jon Snow")},
		{rdf.IRI(got("Jon_Snow")), str("Lord Snow")},
		{rdf.IRI(got("Sandor_Clegane")), str("Sandor Clegane")},
		{rdf.IRI(got("Sandor_Clegane")), str("The Hound")},
	}, solution.Rows)
}

func TestSelect_OrderByAscDesc(t *testing.T) {
	query := `SELECT ?s ?o
	WHERE {
		?s ?p ?o .
		FILTER (!ISBLANK(?s) && !ISBLANK(?o))
	} ORDER BY ASC(?s) DESC(?o)`
	solution := selectRows(t, gotCast3(), query)
	assert.Equal(t, [][]rdf.Value{
		{rdf.IRI(got("Eddard_Stark")), str("Ned")},
		{rdf.IRI(got("Eddard_Stark")), str("Lord")},
		{rdf.IRI(got("Eddard_Stark")), str("Eddard Stark")},
		{rdf.IRI(got("Jon_Snow")), str("Lord Snow")},
		{rdf.IRI(got("Jon_Snow")), str("Jon Snow")},
		{rdf.IRI(got("Jon_Snow")), str("Ghost")},
		{rdf.IRI(got("Sandor_Clegane")), str("The Hound")},
		{rdf.IRI(got("Sandor_Clegane")), str("Sandor Clegane")},
	}, solution.Rows)
}

func TestSelect_BadOrderByKeyIsFatal(t *testing.T) {
	query := `SELECT ?s ?o
	WHERE {
		?s ?p ?o .
		FILTER (!ISBLANK(?s) && !ISBLANK(?o))
	} ORDER BY (?s + ?o)`
	err := selectErr(t, gotCast3(), query)
	assert.Equal(t,
		"<: +: expected numeric value but found <http://awoiaf.westeros.org/index.php/Eddard_Stark>.",
		err.Error())
}

func TestSelect_Limit(t *testing.T) {
	query := `SELECT ?s ?o
	WHERE {
		?s ?p ?o .
		FILTER (!ISBLANK(?s) && !ISBLANK(?o))
	} ORDER BY ?s ?o LIMIT 4`
	solution := selectRows(t, gotCast3(), query)
	assert.Equal(t, [][]rdf.Value{
		{rdf.IRI(got("Eddard_Stark")), str("Eddard Stark")},
		{rdf.IRI(got("Eddard_Stark")), str("Lord")},
		{rdf.IRI(got("Eddard_Stark")), str("Ned")},
		{rdf.IRI(got("Jon_Snow")), str("Ghost")},
	}, solution.Rows)
}

func TestSelect_LimitLargerThanSolution(t *testing.T) {
	query := `SELECT ?s ?o
	WHERE {
		?s ?p ?o .
		FILTER (!ISBLANK(?s) && !ISBLANK(?o))
	} ORDER BY ?s ?o LIMIT 400`
	solution := selectRows(t, gotCast3(), query)
	assert.Len(t, solution.Rows, 8)
}

func TestSelect_Bind(t *testing.T) {
	query := `PREFIX got: <http://awoiaf.westeros.org/index.php/>
	PREFIX v: <http://www.w3.org/2006/vcard/ns#>
	SELECT ?d
	WHERE {
		got:Eddard_Stark v:honorific-prefix ?o .
		BIND (CONCAT(?o, ?o) AS ?d)
	}`
	solution := selectRows(t, gotCast3(), query)
	assert.Equal(t, []string{"d", "o"}, solution.Bindings)
	assert.Equal(t, [][]rdf.Value{{str("LordLord")}}, solution.Rows)
}

func TestSelect_Extensions(t *testing.T) {
	query := `SELECT ?sp ?pp
	WHERE {
		?s ?p ?o .
		BIND(quercus:pname(?s) AS ?sp) .
		BIND(quercus:pname(?p) AS ?pp)
	}`
	solution := selectRows(t, gotCast1(), query)
	assert.Equal(t, []string{"sp", "pp", "s", "p", "o"}, solution.Bindings)
	assert.Equal(t, [][]rdf.Value{
		{str("got:Eddard_Stark"), str("v:fn")},
		{str("got:Eddard_Stark"), str("v:nickname")},
	}, solution.Rows)
}

func TestSelect_UnknownExtensionIsFatal(t *testing.T) {
	err := selectErr(t, gotCast1(), `SELECT ?x WHERE {?s ?p ?o . BIND(nope:fn(?s) AS ?x)}`)
	assert.Equal(t, "nope:fn wasn't registered with the store as an extension function", err.Error())
}

func TestSelect_Distinct(t *testing.T) {
	query := `SELECT DISTINCT ?s
	WHERE {
		?s ?p ?o .
		FILTER (!ISBLANK(?s))
	}`
	solution := selectRows(t, gotCast3(), query)
	assert.Equal(t, [][]rdf.Value{
		{rdf.IRI(got("Eddard_Stark"))},
		{rdf.IRI(got("Jon_Snow"))},
		{rdf.IRI(got("Sandor_Clegane"))},
	}, solution.Rows)
}

func TestSelect_PnameWithBlanks(t *testing.T) {
	query := `SELECT DISTINCT ?name
	WHERE {
		?subject ?predicate ?object .
		BIND(quercus:pname(?subject) AS ?name) .
	} ORDER BY ?name`
	solution := selectRows(t, gotCast3(), query)
	assert.Equal(t, [][]rdf.Value{
		{str("_:jon-org-1")},
		{str("_:ned-org-0")},
		{str("got:Eddard_Stark")},
		{str("got:Jon_Snow")},
		{str("got:Sandor_Clegane")},
	}, solution.Rows)
}

func TestSelect_BlankNodesJoin(t *testing.T) {
	query := `PREFIX v: <http://www.w3.org/2006/vcard/ns#>
	SELECT ?b ?name ?unit
	WHERE {
		?b v:organisation-name ?name .
		?b v:organisation-unit ?unit
	}`
	solution := selectRows(t, gotCast3(), query)
	assert.Equal(t, [][]rdf.Value{
		{rdf.Blank("_:ned-org-0"), str("Small Council"), str("Hand")},
		{rdf.Blank("_:jon-org-1"), str("Night's Watch"), str("Stewards")},
	}, solution.Rows)
}

func TestSelect_Animals(t *testing.T) {
	t.Run("conjunction", func(t *testing.T) {
		solution := selectRows(t, animals(), `PREFIX wiki: <http://en.wikipedia.org/wiki/>
		SELECT ?subject
		WHERE {
			?subject wiki:phylum "chordata" .
			?subject wiki:family "ursidae"
		}`)
		assert.Equal(t, [][]rdf.Value{{rdf.IRI(wiki("grizzly"))}}, solution.Rows)
	})

	t.Run("no match on one pattern", func(t *testing.T) {
		solution := selectRows(t, animals(), `PREFIX wiki: <http://en.wikipedia.org/wiki/>
		SELECT ?subject
		WHERE {
			?subject wiki:phylum "motie" .
			?subject wiki:class "mammalia"
		}`)
		assert.Empty(t, solution.Rows)
	})

	t.Run("three patterns", func(t *testing.T) {
		solution := selectRows(t, animals(), `PREFIX wiki: <http://en.wikipedia.org/wiki/>
		SELECT ?phylum ?family
		WHERE {
			?subject wiki:family ?family .
			?subject wiki:phylum ?phylum .
			?subject wiki:class "mammalia"
		}`)
		assert.Equal(t, [][]rdf.Value{
			{str("chordata"), str("orycteropodidae")},
			{str("chordata"), str("giraffidae")},
			{str("chordata"), str("ursidae")},
		}, solution.Rows)
	})

	t.Run("optional never matching", func(t *testing.T) {
		solution := selectRows(t, animals(), `PREFIX wiki: <http://en.wikipedia.org/wiki/>
		SELECT ?phylum ?family ?foo
		WHERE {
			?subject wiki:family ?family .
			?subject wiki:phylum ?phylum .
			?subject wiki:class "mammalia" .
			OPTIONAL { ?subject wiki:foobar ?foo }
		}`)
		assert.Equal(t, [][]rdf.Value{
			{str("chordata"), str("orycteropodidae"), rdf.Unbound()},
			{str("chordata"), str("giraffidae"), rdf.Unbound()},
			{str("chordata"), str("ursidae"), rdf.Unbound()},
		}, solution.Rows)
	})

	t.Run("optional sometimes matching", func(t *testing.T) {
		solution := selectRows(t, animals(), `PREFIX wiki: <http://en.wikipedia.org/wiki/>
		SELECT ?phylum ?family ?habitat
		WHERE {
			?subject wiki:family ?family .
			?subject wiki:phylum ?phylum .
			?subject wiki:class "mammalia" .
			OPTIONAL { ?subject wiki:habitat ?habitat }
		}`)
		assert.Equal(t, [][]rdf.Value{
			{str("chordata"), str("orycteropodidae"), rdf.Unbound()},
			{str("chordata"), str("giraffidae"), str("savannah")},
			{str("chordata"), str("ursidae"), rdf.Unbound()},
		}, solution.Rows)
	})
}

func TestSelect_SeededRandIsReproducible(t *testing.T) {
	query := `SELECT ?r WHERE {?s ?p ?o . BIND(RAND() AS ?r)} LIMIT 1`
	run := func() rdf.Value {
		selector, err := sparql.Compile(query)
		require.NoError(t, err)
		selector.Rand = rand.New(rand.NewSource(42))
		solution, err := selector.Select(gotCast1())
		require.NoError(t, err)
		require.Len(t, solution.Rows, 1)
		return solution.Rows[0][0]
	}
	first := run()
	require.Equal(t, rdf.KindFloat, first.Kind())
	assert.GreaterOrEqual(t, first.AsFloat(), 0.0)
	assert.Less(t, first.AsFloat(), 1.0)
	assert.Equal(t, first, run())
}

func TestSelect_NowIsFrozen(t *testing.T) {
	query := `SELECT ?now WHERE {?s ?p ?o . BIND(NOW() AS ?now)}`
	selector, err := sparql.Compile(query)
	require.NoError(t, err)
	frozen := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	selector.Now = frozen
	solution, err := selector.Select(gotCast1())
	require.NoError(t, err)
	require.Len(t, solution.Rows, 2)
	for _, row := range solution.Rows {
		assert.Equal(t, rdf.DateTime(frozen), row[0])
	}
}

func TestSelect_SelectorIsReusable(t *testing.T) {
	selector, err := sparql.Compile("SELECT ?s WHERE {?s ?p ?o}")
	require.NoError(t, err)

	a, err := selector.Select(gotCast1())
	require.NoError(t, err)
	assert.Len(t, a.Rows, 2)

	b, err := selector.Select(gotCast3())
	require.NoError(t, err)
	assert.Len(t, b.Rows, 14)
}
