package store

import (
	"fmt"
	"strings"

	"github.com/quercusdb/quercus/pkg/rdf"
)

const (
	rdfNS  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	rdfsNS = "http://www.w3.org/2000/01/rdf-schema#"
	xsdNS  = "http://www.w3.org/2001/XMLSchema#"
	owlNS  = "http://www.w3.org/2002/07/owl#"
)

// Namespace maps a prefix to the IRI path it expands to.
type Namespace struct {
	Prefix string
	Path   string
}

// Entry is a predicate and object associated with a subject.
type Entry struct {
	Predicate string
	Object    rdf.Value
}

// Triple is a relationship between a subject and an object:
//
//   - Subject identifies a resource, an IRI or a blank node label.
//   - Predicate is an IRI describing the relationship.
//   - Object is an IRI, literal, or blank node value.
type Triple struct {
	Subject   string
	Predicate string
	Object    rdf.Value
}

func (t Triple) String() string {
	return fmt.Sprintf("{%s, %s, %s}", t.Subject, t.Predicate, t.Object)
}

// ExtensionFn is a SPARQL extension function: a pure function of the
// store's namespaces and the evaluated arguments.
type ExtensionFn func(namespaces []Namespace, args []rdf.Value) rdf.Value

type subjectEntries struct {
	subject string
	entries []Entry
}

// Store keeps triples in memory, grouped by subject. Entry order within
// a subject is insertion order; subjects iterate in first-insertion
// order, which keeps query results deterministic within a process run
// without documenting a particular order.
type Store struct {
	Namespaces []Namespace

	subjects []subjectEntries
	index    map[string]int

	extensions map[string]ExtensionFn
	nextBlank  int
}

// New creates a store. The xsd, rdf, rdfs, and owl namespaces and the
// blank prefix are always present; the supplied namespaces follow them.
// A quercus:pname extension is registered automatically; it contracts an
// IRI value to a prefixed name using the store's namespaces.
func New(namespaces []Namespace, extensions map[string]ExtensionFn) *Store {
	ext := map[string]ExtensionFn{"quercus:pname": pnameFn}
	for name, fn := range extensions {
		ext[name] = fn
	}
	return &Store{
		Namespaces: append(defaultNamespaces(), namespaces...),
		index:      make(map[string]int),
		extensions: ext,
	}
}

func defaultNamespaces() []Namespace {
	return []Namespace{
		{Prefix: "_", Path: "_:"},
		{Prefix: "xsd", Path: xsdNS},
		{Prefix: "rdf", Path: rdfNS},
		{Prefix: "rdfs", Path: rdfsNS},
		{Prefix: "owl", Path: owlNS},
	}
}

// RegisterExtension makes fn callable from queries under name.
// Extensions must be pure functions: a query borrows the table read-only
// for its whole run.
func (s *Store) RegisterExtension(name string, fn ExtensionFn) {
	s.extensions[name] = fn
}

// Extension looks up a registered extension function.
func (s *Store) Extension(name string) (ExtensionFn, bool) {
	fn, ok := s.extensions[name]
	return fn, ok
}

// ExtensionNames reports the registered extension names.
func (s *Store) ExtensionNames() []string {
	names := make([]string, 0, len(s.extensions))
	for name := range s.extensions {
		names = append(names, name)
	}
	return names
}

// BlankName mints a fresh blank node label of the form "_:<prefix>-<n>".
// Labels are unique for the lifetime of the store.
func (s *Store) BlankName(prefix string) string {
	name := fmt.Sprintf("_:%s-%d", prefix, s.nextBlank)
	s.nextBlank++
	return name
}

// Add appends entries for a subject. Qualified names in the subject,
// the predicates, and the objects are expanded using the store's
// namespaces.
func (s *Store) Add(subject string, entries []Entry) {
	if len(entries) == 0 {
		return
	}
	subject = ExpandURIOrBlank(s.Namespaces, subject)
	expanded := make([]Entry, len(entries))
	for i, e := range entries {
		expanded[i] = Entry{
			Predicate: ExpandURI(s.Namespaces, e.Predicate),
			Object:    expandObject(s.Namespaces, e.Object),
		}
	}
	s.push(subject, expanded...)
}

// AddTriple appends a single triple.
func (s *Store) AddTriple(t Triple) {
	s.push(ExpandURIOrBlank(s.Namespaces, t.Subject), Entry{
		Predicate: ExpandURI(s.Namespaces, t.Predicate),
		Object:    expandObject(s.Namespaces, t.Object),
	})
}

// ReplaceTriple replaces the object of the first entry with the same
// predicate, or appends a new entry when none exists.
func (s *Store) ReplaceTriple(t Triple) {
	subject := ExpandURIOrBlank(s.Namespaces, t.Subject)
	entry := Entry{
		Predicate: ExpandURI(s.Namespaces, t.Predicate),
		Object:    expandObject(s.Namespaces, t.Object),
	}
	i, ok := s.index[subject]
	if !ok {
		s.push(subject, entry)
		return
	}
	for j, candidate := range s.subjects[i].entries {
		if candidate.Predicate == entry.Predicate {
			s.subjects[i].entries[j] = entry
			return
		}
	}
	s.subjects[i].entries = append(s.subjects[i].entries, entry)
}

// AddAggregate adds a statement referencing a fresh blank node and
// attaches entries to that blank. Label is an arbitrary string useful
// for debugging. Returns the blank node's name.
func (s *Store) AddAggregate(subject, predicate, label string, entries []Entry) string {
	blank := s.BlankName(label)
	s.AddTriple(Triple{Subject: subject, Predicate: predicate, Object: rdf.Blank(blank)})
	s.Add(blank, entries)
	return blank
}

// AddAlt adds statements representing a choice between alternatives.
func (s *Store) AddAlt(subject string, values []rdf.Value) {
	s.AddContainer(subject, rdfNS+"Alt", values)
}

// AddBag adds statements representing an unordered set of (possibly
// duplicate) values.
func (s *Store) AddBag(subject string, values []rdf.Value) {
	s.AddContainer(subject, rdfNS+"Bag", values)
}

// AddSeq adds statements representing an ordered set of (possibly
// duplicate) values.
func (s *Store) AddSeq(subject string, values []rdf.Value) {
	s.AddContainer(subject, rdfNS+"Seq", values)
}

// AddContainer adds an open container of the given kind: the members
// hang off a fresh blank node under rdf:_1 … rdf:_N.
func (s *Store) AddContainer(subject, kind string, values []rdf.Value) {
	blank := s.BlankName(after(subject, ':') + "-items")
	s.AddTriple(Triple{Subject: subject, Predicate: kind, Object: rdf.Blank(blank)})

	entries := make([]Entry, len(values))
	for i, v := range values {
		entries[i] = Entry{Predicate: fmt.Sprintf("%s_%d", rdfNS, i+1), Object: v}
	}
	s.Add(blank, entries)
}

// AddList adds a fixed-size list of (possibly duplicate) items as an
// rdf:first/rdf:rest chain terminated by rdf:nil.
func (s *Store) AddList(subject, predicate string, values []rdf.Value) {
	prefix := after(predicate, ':')
	blank := s.BlankName(prefix)
	s.AddTriple(Triple{Subject: subject, Predicate: predicate, Object: rdf.Blank(blank)})
	for i, v := range values {
		s.AddTriple(Triple{Subject: blank, Predicate: rdfNS + "first", Object: v})
		if i == len(values)-1 {
			break
		}
		next := s.BlankName(prefix)
		s.AddTriple(Triple{Subject: blank, Predicate: rdfNS + "rest", Object: rdf.Blank(next)})
		blank = next
	}
	s.AddTriple(Triple{Subject: blank, Predicate: rdfNS + "rest", Object: rdf.IRI(rdfNS + "nil")})
}

// AddReify adds a statement about a statement, e.g. a timestamp stating
// when a triple was recorded.
func (s *Store) AddReify(subject, predicate string, value rdf.Value) {
	blank := s.BlankName(after(predicate, ':'))
	s.AddTriple(Triple{Subject: blank, Predicate: rdfNS + "type", Object: rdf.IRI(rdfNS + "Statement")})
	s.AddTriple(Triple{Subject: blank, Predicate: rdfNS + "subject", Object: rdf.IRI(ExpandURIOrBlank(s.Namespaces, subject))})
	s.AddTriple(Triple{Subject: blank, Predicate: rdfNS + "predicate", Object: rdf.IRI(ExpandURI(s.Namespaces, predicate))})
	s.AddTriple(Triple{Subject: blank, Predicate: rdfNS + "object", Object: expandObject(s.Namespaces, value)})
}

// Clear removes all triples. Namespaces, extensions, and the blank node
// counter are retained.
func (s *Store) Clear() {
	s.subjects = nil
	s.index = make(map[string]int)
}

// FindObject returns the first object for the subject/predicate pair.
func (s *Store) FindObject(subject, predicate string) (rdf.Value, bool) {
	subject = ExpandURIOrBlank(s.Namespaces, subject)
	predicate = ExpandURI(s.Namespaces, predicate)
	i, ok := s.index[subject]
	if !ok {
		return rdf.Unbound(), false
	}
	for _, e := range s.subjects[i].entries {
		if e.Predicate == predicate {
			return e.Object, true
		}
	}
	return rdf.Unbound(), false
}

// FindObjects returns all objects for the subject/predicate pair.
func (s *Store) FindObjects(subject, predicate string) []rdf.Value {
	subject = ExpandURIOrBlank(s.Namespaces, subject)
	predicate = ExpandURI(s.Namespaces, predicate)
	i, ok := s.index[subject]
	if !ok {
		return nil
	}
	var objects []rdf.Value
	for _, e := range s.subjects[i].entries {
		if e.Predicate == predicate {
			objects = append(objects, e.Object)
		}
	}
	return objects
}

// Each calls fn for every triple in the store until fn returns false.
// The store must not be mutated during iteration.
func (s *Store) Each(fn func(Triple) bool) {
	for _, se := range s.subjects {
		for _, e := range se.entries {
			if !fn(Triple{Subject: se.subject, Predicate: e.Predicate, Object: e.Object}) {
				return
			}
		}
	}
}

// Len returns the number of triples in the store.
func (s *Store) Len() int {
	n := 0
	for _, se := range s.subjects {
		n += len(se.entries)
	}
	return n
}

func (s *Store) String() string {
	var b strings.Builder
	for _, se := range s.subjects {
		for i, e := range se.entries {
			fmt.Fprintf(&b, "%d: <%s>  <%s>  %s\n", i, se.subject, e.Predicate, e.Object)
		}
	}
	return b.String()
}

func (s *Store) push(subject string, entries ...Entry) {
	i, ok := s.index[subject]
	if !ok {
		i = len(s.subjects)
		s.subjects = append(s.subjects, subjectEntries{subject: subject})
		s.index[subject] = i
	}
	s.subjects[i].entries = append(s.subjects[i].entries, entries...)
}

// ExpandURI replaces a leading prefix with its namespace path, using the
// first namespace whose prefix matches.
func ExpandURI(namespaces []Namespace, name string) string {
	for _, ns := range namespaces {
		if strings.HasPrefix(name, ns.Prefix+":") {
			return ns.Path + name[len(ns.Prefix)+1:]
		}
	}
	return name
}

// ExpandURIOrBlank expands a qualified name, leaving blank node labels
// untouched.
func ExpandURIOrBlank(namespaces []Namespace, name string) string {
	if strings.HasPrefix(name, "_:") {
		return name
	}
	return ExpandURI(namespaces, name)
}

// ContractURI returns the prefixed version of the IRI, or the IRI
// unchanged when no namespace path is a prefix of it.
func ContractURI(namespaces []Namespace, iri string) string {
	for _, ns := range namespaces {
		if ns.Prefix != "_" && strings.HasPrefix(iri, ns.Path) {
			return ns.Prefix + ":" + iri[len(ns.Path):]
		}
	}
	return iri
}

// FriendlyString renders a value with IRIs contracted through the
// given namespaces.
func FriendlyString(namespaces []Namespace, v rdf.Value) string {
	switch v.Kind() {
	case rdf.KindTyped:
		return fmt.Sprintf("%q^^%s", v.AsString(), ContractURI(namespaces, v.DatatypeIRI()))
	case rdf.KindIRI:
		if contracted := ContractURI(namespaces, v.AsString()); contracted != v.AsString() {
			return contracted
		}
		return "<" + v.AsString() + ">"
	default:
		return v.String()
	}
}

func expandObject(namespaces []Namespace, v rdf.Value) rdf.Value {
	switch v.Kind() {
	case rdf.KindTyped:
		return rdf.Typed(v.AsString(), ExpandURI(namespaces, v.DatatypeIRI()))
	case rdf.KindIRI:
		return rdf.IRI(ExpandURI(namespaces, v.AsString()))
	default:
		return v
	}
}

func after(text string, ch byte) string {
	if i := strings.LastIndexByte(text, ch); i >= 0 {
		return text[i+1:]
	}
	return text
}

func pnameFn(namespaces []Namespace, args []rdf.Value) rdf.Value {
	if len(args) != 1 {
		return rdf.Errorf("quercus:pname accepts 1 argument but was called with %d arguments.", len(args))
	}
	switch args[0].Kind() {
	case rdf.KindIRI:
		iri := args[0].AsString()
		if contracted := ContractURI(namespaces, iri); contracted != iri {
			return rdf.String(contracted, "")
		}
		return rdf.String("<"+iri+">", "")
	case rdf.KindBlank:
		return rdf.String(args[0].AsString(), "")
	default:
		return rdf.Errorf("quercus:pname expected an IRI or blank value but was called with %s.", args[0])
	}
}
