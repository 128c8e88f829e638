// api/dao/helpers.go
package dao

import (
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

func nodeString(node neo4j.Node, key string) string {
	if v, ok := node.Props[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func nodeInt(node neo4j.Node, key string) int {
	if v, ok := node.Props[key]; ok {
		if i, ok := v.(int64); ok {
			return int(i)
		}
	}
	return 0
}

func nodeBool(node neo4j.Node, key string) bool {
	if v, ok := node.Props[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

func nodeFloat(node neo4j.Node, key string) float64 {
	if v, ok := node.Props[key]; ok {
		switch f := v.(type) {
		case float64:
			return f
		case int64:
			return float64(f)
		}
	}
	return 0
}

func nodeTime(node neo4j.Node, key string) time.Time {
	return parseTime(nodeString(node, key))
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}
