package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tuannm99/novarecord/internal/record"
	"github.com/tuannm99/novarecord/internal/schema"
)

// loadRows reads a YAML or JSON list of objects and converts each to a
// record of s.
func loadRows(s *schema.Schema, path string) ([]*record.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	var raw []map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse rows: %w", err)
	}
	out := make([]*record.Record, 0, len(raw))
	for i, m := range raw {
		r, err := record.FromMap(s.AsStruct(), m)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func marshalRows(rows []*record.Record) ([]byte, error) {
	docs := make([]map[string]any, len(rows))
	for i, r := range rows {
		docs[i] = r.ToMap()
	}
	return yaml.Marshal(docs)
}
