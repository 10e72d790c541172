// Package config provides configuration structures and utilities for sitegrep.
// It defines the main configuration options for crawling sites, searching the
// built index, and report generation preferences.
package config
