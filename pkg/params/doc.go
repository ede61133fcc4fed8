// Package params provides the ordered attribute set that carries an
// operation's effective parameters. It preserves insertion order, supports
// removal during iteration, and round-trips through YAML and JSON so
// parameter sets can be read from files and persisted alongside operation
// history.
package params
