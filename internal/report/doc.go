// Package report renders resolver output for people and tools.
//
// A Document collects what one command produced: the session facts, the
// per-package resolutions, lint issues and probe results. Writers turn it into
// plain text, JSON or Markdown.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
