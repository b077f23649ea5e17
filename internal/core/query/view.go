package query

import "strings"

// FieldMap translates the field paths of a presentation model onto record
// field paths, e.g. "CompanyName" -> "Company.Name". Keys match exactly
// first, then case-insensitively. Paths without an entry pass through.
type FieldMap map[string]string

func (m FieldMap) lookup(path string) (string, bool) {
	if target, ok := m[path]; ok {
		return target, true
	}
	for view, target := range m {
		if strings.EqualFold(view, path) {
			return target, true
		}
	}
	return "", false
}

// Rewrite returns a copy of req with every mapped path replaced by its record
// path. The second result maps each rewritten record path back to the name
// the request used, for Project.
func (m FieldMap) Rewrite(req Request) (Request, FieldMap) {
	names := make(FieldMap)
	field := func(path string) string {
		target, ok := m.lookup(path)
		if !ok {
			return path
		}
		names[target] = path
		return target
	}
	aggregates := func(specs []AggregateSpec) []AggregateSpec {
		if specs == nil {
			return nil
		}
		out := make([]AggregateSpec, len(specs))
		for i, s := range specs {
			out[i] = AggregateSpec{Field: field(s.Field), Function: s.Function}
		}
		return out
	}

	out := Request{Skip: req.Skip, Take: req.Take}
	out.Filter = rewriteFilter(req.Filter, field)
	if req.Sort != nil {
		out.Sort = make([]SortKey, len(req.Sort))
		for i, k := range req.Sort {
			out.Sort[i] = SortKey{Field: field(k.Field), Direction: k.Direction}
		}
	}
	if req.Groups != nil {
		out.Groups = make([]GroupLevel, len(req.Groups))
		for i, g := range req.Groups {
			out.Groups[i] = GroupLevel{Field: field(g.Field), Direction: g.Direction, Aggregates: aggregates(g.Aggregates)}
		}
	}
	out.Aggregates = aggregates(req.Aggregates)
	return out, names
}

func rewriteFilter(node FilterNode, field func(string) string) FilterNode {
	switch n := node.(type) {
	case Leaf:
		n.Field = field(n.Field)
		return n
	case Composite:
		children := make([]FilterNode, len(n.Children))
		for i, child := range n.Children {
			children[i] = rewriteFilter(child, field)
		}
		return Composite{Logic: n.Logic, Children: children}
	}
	return node
}

func (m FieldMap) name(path string) string {
	if view, ok := m[path]; ok {
		return view
	}
	return path
}

// Project converts the records of resp with convert and reports group fields
// and aggregate keys under the names recorded in names. convert receives each
// page or group leaf in order and must return one view per record.
func Project[E, V any](resp *Response[E], convert func([]E) []V, names FieldMap) *Response[V] {
	out := &Response[V]{
		Total:      resp.Total,
		Aggregates: names.renameAggregates(resp.Aggregates),
	}
	if resp.Data != nil {
		out.Data = convert(resp.Data)
		if out.Data == nil {
			out.Data = []V{}
		}
	}
	if resp.Groups != nil {
		out.Groups = projectGroups(resp.Groups, convert, names)
	}
	return out
}

func projectGroups[E, V any](nodes []GroupNode[E], convert func([]E) []V, names FieldMap) []GroupNode[V] {
	out := make([]GroupNode[V], len(nodes))
	for i, n := range nodes {
		node := GroupNode[V]{
			Field:        names.name(n.Field),
			Value:        n.Value,
			Aggregates:   names.renameAggregates(n.Aggregates),
			HasSubgroups: n.HasSubgroups,
		}
		if n.HasSubgroups {
			node.Subgroups = projectGroups(n.Subgroups, convert, names)
		} else {
			node.Items = convert(n.Items)
		}
		out[i] = node
	}
	return out
}

func (m FieldMap) renameAggregates(aggs Aggregates) Aggregates {
	if aggs == nil || len(m) == 0 {
		return aggs
	}
	out := make(Aggregates, len(aggs))
	for path, byFn := range aggs {
		out[m.name(path)] = byFn
	}
	return out
}
