// Package main provides the entry point for the sitegrep CLI.
//
// sitegrep crawls a website, builds an in-memory full-text index of its
// pages, and prints the URLs whose text contains a keyword.
//
// Usage:
//
//	sitegrep search <keyword> <url>
//	sitegrep search --depth 5 <keyword> <url> [url...]
//
// See --help for all available options.
package main

// main is the entry point for sitegrep.
func main() {
	Execute()
}
