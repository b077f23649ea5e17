package v1

import (
	"bytes"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// DecodeJSON parses a JSON request body. Numbers are kept as json.Number so
// literals keep their precision until they are coerced to the field type.
func DecodeJSON(body []byte) (DataSourceRequest, error) {
	var req DataSourceRequest
	if len(bytes.TrimSpace(body)) == 0 {
		return req, nil
	}
	if err := unmarshalNumbers(body, &req); err != nil {
		return DataSourceRequest{}, invalidRequestf("malformed JSON body: %v", err)
	}
	return req, nil
}

func unmarshalNumbers(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

// structuredKeys are the request members that may arrive either as bracket
// notation (sort[0][field]=...) or as a JSON-encoded value (sort=[...]).
var structuredKeys = []string{"filter", "sort", "group", "aggregate"}

// DecodeForm parses a query string or urlencoded form body.
func DecodeForm(values url.Values) (DataSourceRequest, error) {
	var req DataSourceRequest

	tree := make(map[string]any)
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		raw := vals[len(vals)-1]

		lower := strings.ToLower(key)
		switch lower {
		case "take", "skip", "page", "pagesize":
			if strings.TrimSpace(raw) == "" {
				continue
			}
			n, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				return DataSourceRequest{}, invalidRequestf("%s must be an integer, got %q", key, raw)
			}
			switch lower {
			case "take":
				req.Take = &n
			case "skip":
				req.Skip = &n
			case "page":
				req.Page = &n
			case "pagesize":
				req.PageSize = &n
			}
			continue
		}

		path, err := splitBracketKey(key)
		if err != nil {
			return DataSourceRequest{}, err
		}
		if !isStructuredKey(path[0]) {
			continue
		}
		if len(path) == 1 {
			if err := decodeJSONValue(&req, path[0], raw); err != nil {
				return DataSourceRequest{}, err
			}
			continue
		}
		if err := insertPath(tree, path, raw); err != nil {
			return DataSourceRequest{}, err
		}
	}

	for _, name := range structuredKeys {
		node, ok := tree[name]
		if !ok {
			continue
		}
		encoded, err := json.Marshal(compact(node))
		if err != nil {
			return DataSourceRequest{}, invalidRequestf("%s: %v", name, err)
		}
		if err := decodeJSONValue(&req, name, string(encoded)); err != nil {
			return DataSourceRequest{}, err
		}
	}
	return req, nil
}

func isStructuredKey(name string) bool {
	for _, k := range structuredKeys {
		if k == name {
			return true
		}
	}
	return false
}

// decodeJSONValue unmarshals one structured member. An empty value clears it.
func decodeJSONValue(req *DataSourceRequest, name, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil
	}
	var target any
	switch name {
	case "filter":
		target = &req.Filter
	case "sort":
		target = &req.Sort
	case "group":
		target = &req.Group
	case "aggregate":
		target = &req.Aggregate
	}
	if err := unmarshalNumbers([]byte(raw), target); err != nil {
		return invalidRequestf("%s: %v", name, err)
	}
	return nil
}

// splitBracketKey turns "filter[filters][0][field]" into
// ["filter", "filters", "0", "field"].
func splitBracketKey(key string) ([]string, error) {
	name, rest, found := strings.Cut(key, "[")
	if !found {
		return []string{key}, nil
	}
	path := []string{name}
	rest = "[" + rest
	for rest != "" {
		if rest[0] != '[' {
			return nil, invalidRequestf("malformed key %q", key)
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, invalidRequestf("malformed key %q", key)
		}
		path = append(path, rest[1:end])
		rest = rest[end+1:]
	}
	return path, nil
}

func insertPath(tree map[string]any, path []string, value string) error {
	node := tree
	for i, seg := range path {
		if i == len(path)-1 {
			if _, exists := node[seg].(map[string]any); exists {
				return invalidRequestf("key %q is both a value and an object", strings.Join(path, "."))
			}
			node[seg] = value
			return nil
		}
		next, ok := node[seg]
		if !ok {
			child := make(map[string]any)
			node[seg] = child
			node = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return invalidRequestf("key %q is both a value and an object", strings.Join(path[:i+1], "."))
		}
		node = child
	}
	return nil
}

// compact turns maps whose keys are all indexes into slices ordered by index.
func compact(node any) any {
	m, ok := node.(map[string]any)
	if !ok {
		return node
	}
	indexes := make([]int, 0, len(m))
	for k := range m {
		n, err := strconv.Atoi(k)
		if err != nil || n < 0 {
			indexes = nil
			break
		}
		indexes = append(indexes, n)
	}
	if indexes != nil && len(indexes) == len(m) && len(m) > 0 {
		sort.Ints(indexes)
		list := make([]any, len(indexes))
		for i, n := range indexes {
			list[i] = compact(m[strconv.Itoa(n)])
		}
		return list
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = compact(v)
	}
	return out
}
