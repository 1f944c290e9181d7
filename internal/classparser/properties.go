package classparser

import "strings"

// ParseProperties splits a block body into individual `name = value;`
// statements and parses each value. Statements opening nested class or enum
// definitions are skipped here; the block scanner already captured those as
// children. Statements without an assignment are logged and dropped, and
// every parsed property is retained even when its value is empty.
func (p *Parser) ParseProperties(body string) map[string]Value {
	body = strings.TrimSpace(body)
	body = strings.TrimPrefix(body, "{")
	body = strings.TrimSuffix(body, "}")

	properties := make(map[string]Value)
	for _, stmt := range splitTopLevel(body, ';') {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" || strings.HasPrefix(stmt, "class") || strings.HasPrefix(stmt, "enum") {
			continue
		}
		p.addProperty(stmt, properties)
	}
	return properties
}

func (p *Parser) addProperty(stmt string, properties map[string]Value) {
	name, rawValue, ok := strings.Cut(stmt, "=")
	if !ok {
		p.logger.Warn("Skipping statement without assignment.", "statement", stmt)
		return
	}
	name = strings.TrimSpace(name)
	rawValue = strings.TrimSpace(rawValue)
	if name == "" {
		p.logger.Warn("Skipping statement with empty property name.", "statement", stmt)
		return
	}

	if trimmed, isArray := strings.CutSuffix(name, "[]"); isArray {
		name = strings.TrimSpace(trimmed)
		properties[name] = parseArrayValue(rawValue)
		return
	}
	properties[name] = ParseValue(rawValue)
}
