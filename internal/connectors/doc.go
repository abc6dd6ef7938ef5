// Package connectors provides the document sources that feed ingestion.
// Each sub-package knows how to load raw bytes from one kind of location:
// filesystem reads local files and watches directories, web downloads
// pages. Reader combines them behind the DocumentReader port.
package connectors
