// Package vault loads node graphs from the JSON export format of the
// knowledge-store extractor.
package vault

import (
	"fmt"
	"os"
	"time"

	"github.com/bytedance/sonic"

	"github.com/sonigraph/sonigraph-go/internal/timeline"
)

type nodeJSON struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Path        string   `json:"path"`
	Type        string   `json:"type"`
	FileSize    int64    `json:"fileSize"`
	Connections []string `json:"connections"`
	Created     string   `json:"created"`
}

type linkJSON struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

type exportJSON struct {
	Nodes []nodeJSON `json:"nodes"`
	Links []linkJSON `json:"links"`
}

// Load reads a vault export. Node timestamps are RFC 3339. When a node
// carries no explicit connection list, the top-level links involving it
// are folded in instead, both directions.
func Load(path string) ([]timeline.Node, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vault: read %s: %w", path, err)
	}
	return Parse(raw)
}

func Parse(raw []byte) ([]timeline.Node, error) {
	var export exportJSON
	if err := sonic.Unmarshal(raw, &export); err != nil {
		return nil, fmt.Errorf("vault: parse: %w", err)
	}

	linked := make(map[string][]string)
	for _, l := range export.Links {
		linked[l.Source] = append(linked[l.Source], l.Target)
		linked[l.Target] = append(linked[l.Target], l.Source)
	}

	nodes := make([]timeline.Node, 0, len(export.Nodes))
	for i, n := range export.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("vault: node %d has no id", i)
		}
		created, err := time.Parse(time.RFC3339, n.Created)
		if err != nil {
			return nil, fmt.Errorf("vault: node %s: bad created timestamp: %w", n.ID, err)
		}
		connections := n.Connections
		if len(connections) == 0 {
			connections = linked[n.ID]
		}
		nodeType := n.Type
		if nodeType == "" {
			nodeType = "note"
		}
		nodes = append(nodes, timeline.Node{
			ID:          n.ID,
			Title:       n.Title,
			Path:        n.Path,
			Type:        nodeType,
			FileSize:    n.FileSize,
			Connections: connections,
			Created:     created,
		})
	}
	return nodes, nil
}
