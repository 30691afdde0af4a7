// Package cli implements the immucli demo: it connects with the loaded
// configuration and walks through the SQL and document APIs, printing a
// colored transcript.
package cli
