package nav

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Garsondee/Arena-Sense/internal/geom"
)

// ParseText reads the plain-text graph format: node lines "id x y", a line
// "connections" followed by "a b" pairs joined in both directions, then a
// line "paths" followed by one patrol route per line as space-separated
// node ids. It returns the full graph and the route id lists.
func ParseText(r io.Reader) (*Graph, [][]int, error) {
	g := NewGraph()
	var routes [][]int

	section := "nodes"
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		switch text {
		case "connections", "paths":
			section = text
			continue
		}

		fields := strings.Fields(text)
		switch section {
		case "nodes":
			if len(fields) != 3 {
				return nil, nil, fmt.Errorf("line %d: node needs 3 fields, got %d", line, len(fields))
			}
			id, err := strconv.Atoi(fields[0])
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: node id: %w", line, err)
			}
			x, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: x: %w", line, err)
			}
			y, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: y: %w", line, err)
			}
			g.AddNode(id, geom.V(x, y))
		case "connections":
			ids, err := parseIDs(fields)
			if err != nil || len(ids) != 2 {
				return nil, nil, fmt.Errorf("line %d: connection needs two node ids", line)
			}
			if err := g.ConnectBoth(ids[0], ids[1]); err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", line, err)
			}
		case "paths":
			ids, err := parseIDs(fields)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", line, err)
			}
			for _, id := range ids {
				if g.Node(id) == nil {
					return nil, nil, fmt.Errorf("line %d: route node %d: %w", line, id, ErrUnknownNode)
				}
			}
			routes = append(routes, ids)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	return g, routes, nil
}

func parseIDs(fields []string) ([]int, error) {
	ids := make([]int, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
