// Package pkg provides the core functionality of compiling sample rulebases and normalizing log lines against them.
// This package (and subpackages) has no dependency on the cmd utility.
//   - The fields package contains the field-type registry and the built-in field parsers.
//   - The pdag package contains the prefix-sharing graph, the rulebase compiler, and the matcher.
//   - The record package contains functions related to an individual record.Record.
//   - The iterator package contains functions for creating and altering the behavior of an iterator.Iterator.
//   - The source and sink packages produce input lines and consume normalized records.
package pkg
