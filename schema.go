package parquet

import "strings"

// Node is one element of the rooted schema tree (spec §3 "Schema tree"). Primitive leaves
// carry a PhysicalType and a unique ColumnIndex; group nodes are either a struct, a list
// wrapper, or a map wrapper, distinguished by IsList/IsMap.
type Node struct {
	Name       string
	Repetition Repetition
	FieldIndex int // position among Parent's Children

	IsGroup bool
	IsList  bool
	IsMap   bool

	PhysicalType PhysicalType
	TypeLength   int32
	ColumnIndex  int // -1 for group nodes

	MaxDefLevel int
	MaxRepLevel int

	Parent   *Node
	Children []*Node

	numChildren int // only meaningful for group nodes, consumed once during BuildSchema
}

func (n *Node) flatName() string {
	if n.Parent == nil || n.Parent.Parent == nil {
		return n.Name
	}
	return n.Parent.flatName() + "." + n.Name
}

// PathStep is one hop from root to a leaf along a FieldPath, per spec §3.
type PathStep struct {
	FieldIndex      int
	IsContainer     bool
	IsRepeated      bool
	IsList          bool
	IsMap           bool
	DefinitionLevel int
	// SingleChild is set on any group step whose node declares exactly one child in the
	// schema; primitive steps never carry it. The record assembler reads it only on
	// repeated steps, where it marks the synthetic single-element wrapper of 3-level list
	// encoding and tells that shape apart from a repeated GROUP with several real named
	// fields (classic Dremel repeated structs, and map's key_value pair), which must
	// address its children by real field index instead.
	SingleChild bool
}

// FieldPath describes the steps from root to one primitive leaf.
type FieldPath struct {
	Steps          []PathStep
	LeafFieldIndex int
	MaxDefLevel    int
	MaxRepLevel    int
}

// Column is the public descriptor for one projected leaf, carrying the level metadata
// spec §3 requires.
type Column struct {
	Index               int
	Name                string
	FlatName            string
	PhysicalType        PhysicalType
	TypeLength          int32
	Repetition          Repetition
	MaxDefinitionLevel  int
	MaxRepetitionLevel  int
	Node                *Node
}

// Schema is the parsed, walkable schema tree plus the flattened leaf/column-path index
// the rest of the pipeline (scanner, decoder, assembler) operates on.
type Schema struct {
	Root       *Node
	Columns    []*Column
	FieldPaths []*FieldPath
}

// ColumnByName finds a projected column by its dotted flat name.
func (s *Schema) ColumnByName(name string) (*Column, error) {
	for _, c := range s.Columns {
		if c.FlatName == name {
			return c, nil
		}
	}
	return nil, schemaf("column %q not found in schema", name)
}

// BuildSchema walks the flattened, depth-first SchemaElement list from a parsed
// FileMetaData and builds the Node tree and FieldPath index record assembly needs. This
// is the in-scope half of spec §3's "Schema tree": the bytes-to-SchemaElement step itself
// is the external metadata parser's job (spec §1).
func BuildSchema(elements []*SchemaElement) (*Schema, error) {
	if len(elements) == 0 {
		return nil, corruptf("schema: empty element list")
	}

	root := &Node{Name: elements[0].Name, IsGroup: true, ColumnIndex: -1}
	var columns []*Column
	var paths []*FieldPath

	pos := 1
	var buildChildren func(parent *Node, dLevel, rLevel int) error
	buildChildren = func(parent *Node, dLevel, rLevel int) error {
		for i := 0; i < parent.numChildren; i++ {
			if pos >= len(elements) {
				return corruptf("schema: element list exhausted while expanding %q", parent.flatName())
			}
			el := elements[pos]
			pos++

			childDLevel, childRLevel := dLevel, rLevel
			rep := Required
			if el.RepetitionType != nil {
				rep = *el.RepetitionType
			}
			if rep != Required {
				childDLevel++
			}
			if rep == Repeated {
				childRLevel++
			}

			child := &Node{
				Name:        el.Name,
				Repetition:  rep,
				FieldIndex:  i,
				Parent:      parent,
				MaxDefLevel: childDLevel,
				MaxRepLevel: childRLevel,
				ColumnIndex: -1,
			}

			if el.Type == nil {
				// group node
				child.IsGroup = true
				child.numChildren = int(derefInt32(el.NumChildren))
				if el.LogicalType != nil {
					switch el.LogicalType.Name {
					case "LIST":
						child.IsList = true
					case "MAP", "MAP_KEY_VALUE":
						child.IsMap = true
					}
				}
				if err := buildChildren(child, childDLevel, childRLevel); err != nil {
					return err
				}
			} else {
				child.PhysicalType = *el.Type
				if el.TypeLength != nil {
					child.TypeLength = *el.TypeLength
				}
				child.ColumnIndex = len(columns)

				col := &Column{
					Index:              child.ColumnIndex,
					Name:               child.Name,
					FlatName:           child.flatName(),
					PhysicalType:       child.PhysicalType,
					TypeLength:         child.TypeLength,
					Repetition:         rep,
					MaxDefinitionLevel: childDLevel,
					MaxRepetitionLevel: childRLevel,
					Node:               child,
				}
				columns = append(columns, col)
				paths = append(paths, buildFieldPath(child))
			}

			parent.Children = append(parent.Children, child)
		}
		return nil
	}

	root.numChildren = int(derefInt32(elements[0].NumChildren))
	root.Children = make([]*Node, 0, root.numChildren)
	if err := buildChildren(root, 0, 0); err != nil {
		return nil, err
	}
	if pos != len(elements) {
		return nil, corruptf("schema: %d of %d schema elements unused", len(elements)-pos, len(elements))
	}

	return &Schema{Root: root, Columns: columns, FieldPaths: paths}, nil
}

// buildFieldPath walks from leaf to root collecting PathStep entries in root-to-leaf
// order, as consumed by the record assembler (spec §4.5).
func buildFieldPath(leaf *Node) *FieldPath {
	var chain []*Node
	for n := leaf; n.Parent != nil; n = n.Parent {
		chain = append(chain, n)
	}
	// chain is leaf..first-level-below-root; reverse to root-to-leaf, dropping the
	// synthetic file root itself.
	steps := make([]PathStep, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		node := chain[i]
		if node.Parent == nil {
			continue
		}
		steps = append(steps, PathStep{
			FieldIndex:      node.FieldIndex,
			IsContainer:     node.IsGroup,
			IsRepeated:      node.Repetition == Repeated,
			IsList:          node.IsList,
			IsMap:           node.IsMap,
			DefinitionLevel: node.MaxDefLevel,
			SingleChild:     node.IsGroup && node.numChildren == 1,
		})
	}
	return &FieldPath{
		Steps:          steps,
		LeafFieldIndex: leaf.FieldIndex,
		MaxDefLevel:    leaf.MaxDefLevel,
		MaxRepLevel:    leaf.MaxRepLevel,
	}
}

func derefInt32(p *int32) int32 {
	if p == nil {
		return 0
	}
	return *p
}

// ProjectedName reports whether dotted is a prefix-match projection of flatName, i.e.
// selecting a group also selects all of its descendant leaves.
func ProjectedName(flatName string, projection []string) bool {
	if projection == nil {
		return true
	}
	for _, p := range projection {
		if p == flatName || strings.HasPrefix(flatName, p+".") {
			return true
		}
	}
	return false
}
