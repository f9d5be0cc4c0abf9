package feasts

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zapponejosh/coptic-calendar-api/internal/calendar"
)

// document is the on-disk shape:
//
//	feasts:
//	  - month: Kiahk
//	    day: 29
//	    name: Nativity of Christ (Christmas)
//	    kind: lord
type document struct {
	Feasts []fileFeast `yaml:"feasts"`
}

type fileFeast struct {
	Month monthValue         `yaml:"month"`
	Day   int                `yaml:"day"`
	Name  string             `yaml:"name"`
	Kind  calendar.FeastKind `yaml:"kind"`
}

// monthValue reads a month as either its number or its name and writes it
// as the name.
type monthValue calendar.Month

func (m *monthValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: month must be a number or a name", node.Line)
	}
	parsed, err := calendar.ParseMonth(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*m = monthValue(parsed)
	return nil
}

func (m monthValue) MarshalYAML() (any, error) {
	return calendar.Month(m).Name(), nil
}

// ParseYAML decodes and validates a feast document.
func ParseYAML(data []byte) (calendar.FeastTable, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return calendar.FeastTable{}, fmt.Errorf("parse feasts yaml: %w", err)
	}

	feasts := make([]calendar.Feast, len(doc.Feasts))
	for i, f := range doc.Feasts {
		feasts[i] = calendar.Feast{Month: calendar.Month(f.Month), Day: f.Day, Name: f.Name, Kind: f.Kind}
	}
	return calendar.NewFeastTable(feasts)
}

// LoadFile reads a feast document from path.
func LoadFile(path string) (calendar.FeastTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return calendar.FeastTable{}, fmt.Errorf("read feasts file: %w", err)
	}
	table, err := ParseYAML(data)
	if err != nil {
		return calendar.FeastTable{}, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// MarshalYAML encodes table as a feast document.
func MarshalYAML(table calendar.FeastTable) ([]byte, error) {
	entries := table.Entries()
	doc := document{Feasts: make([]fileFeast, len(entries))}
	for i, f := range entries {
		doc.Feasts[i] = fileFeast{Month: monthValue(f.Month), Day: f.Day, Name: f.Name, Kind: f.Kind}
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode feasts yaml: %w", err)
	}
	return data, nil
}

// WriteFile writes table to path as YAML.
func WriteFile(path string, table calendar.FeastTable) error {
	data, err := MarshalYAML(table)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write feasts file: %w", err)
	}
	return nil
}
