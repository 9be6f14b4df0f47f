package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed criteria.yaml
var defaultCatalogYAML []byte

//go:embed catalog.schema.json
var catalogSchemaJSON []byte

// Direction says whether larger or smaller raw values dominate.
type Direction string

const (
	Benefit Direction = "benefit"
	Cost    Direction = "cost"
)

// ParseDirection accepts benefit/cost and the legacy max/min spellings.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "benefit", "max":
		return Benefit, nil
	case "cost", "min":
		return Cost, nil
	default:
		return "", fmt.Errorf("unknown criterion direction %q", s)
	}
}

func (d *Direction) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseDirection(value.Value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d *Direction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDirection(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Criterion is one immutable catalog entry.
type Criterion struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Direction   Direction `json:"direction" yaml:"direction"`
	Description string    `json:"description,omitempty" yaml:"description"`
}

// DisplayName falls back to the id when no name was configured.
func (c Criterion) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// Catalog is an ordered, read-only set of criteria. It is built once at
// startup and shared across requests without locking.
type Catalog struct {
	criteria []Criterion
	index    map[string]int
}

// ErrUnknownCriterion is returned by Select for ids not in the catalog.
var ErrUnknownCriterion = errors.New("unknown criterion")

type catalogFile struct {
	Criteria []Criterion `yaml:"criteria"`
}

var catalogSchema = mustCompileSchema(catalogSchemaJSON, "catalog.schema.json")

var defaultCatalog = mustParse(defaultCatalogYAML)

// Default returns the built-in financial criteria catalog.
func Default() *Catalog {
	return defaultCatalog
}

// New builds a catalog from criteria, rejecting empty or duplicate ids.
func New(criteria []Criterion) (*Catalog, error) {
	c := &Catalog{
		criteria: make([]Criterion, 0, len(criteria)),
		index:    make(map[string]int, len(criteria)),
	}
	for _, cr := range criteria {
		if cr.ID == "" {
			return nil, errors.New("criterion id required")
		}
		if _, dup := c.index[cr.ID]; dup {
			return nil, fmt.Errorf("duplicate criterion id %q", cr.ID)
		}
		if cr.Direction != Benefit && cr.Direction != Cost {
			return nil, fmt.Errorf("criterion %q: invalid direction %q", cr.ID, cr.Direction)
		}
		c.index[cr.ID] = len(c.criteria)
		c.criteria = append(c.criteria, cr)
	}
	return c, nil
}

// Load reads a YAML catalog. An empty path yields the default catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse validates YAML catalog bytes against the catalog schema and builds a Catalog.
func Parse(data []byte) (*Catalog, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	// Round-trip through JSON so the schema sees JSON-native types.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := catalogSchema.Validate(inst); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(f.Criteria)
}

// All returns a copy of the criteria in catalog order.
func (c *Catalog) All() []Criterion {
	out := make([]Criterion, len(c.criteria))
	copy(out, c.criteria)
	return out
}

func (c *Catalog) Len() int { return len(c.criteria) }

func (c *Catalog) Get(id string) (Criterion, bool) {
	i, ok := c.index[id]
	if !ok {
		return Criterion{}, false
	}
	return c.criteria[i], true
}

// Select resolves ids in the caller's order. Empty ids selects the whole catalog.
func (c *Catalog) Select(ids []string) ([]Criterion, error) {
	if len(ids) == 0 {
		return c.All(), nil
	}
	out := make([]Criterion, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		cr, ok := c.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCriterion, id)
		}
		if seen[id] {
			return nil, fmt.Errorf("criterion %s selected twice", id)
		}
		seen[id] = true
		out = append(out, cr)
	}
	return out, nil
}

func mustParse(data []byte) *Catalog {
	c, err := Parse(data)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

func mustCompileSchema(raw []byte, name string) *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, doc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}
	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}
