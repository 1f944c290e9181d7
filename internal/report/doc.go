// Package report renders a resolved class registry as a text inheritance
// tree, a JSON export or a summary.
package report
