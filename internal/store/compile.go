package store

import (
	"fmt"
	"strings"
)

// compileIntersect builds one parameterized INTERSECT query over params.
// The result is ordered so equal inputs give equal output.
func compileIntersect(mod string, params []Param) (string, []any, error) {
	if len(params) == 0 {
		return "", nil, fmt.Errorf("cannot intersect zero params")
	}

	parts := make([]string, 0, len(params))
	args := make([]any, 0, 3*len(params))
	for _, p := range params {
		parts = append(parts, "SELECT pokemon FROM params WHERE mod = ? AND type = ? AND param_id = ?")
		args = append(args, mod, p.Type, p.ID)
	}

	query := strings.Join(parts, " INTERSECT ") + " ORDER BY pokemon COLLATE BINARY ASC"
	return query, args, nil
}
