// Package client wraps the matchdeck daemon's REST API for CLI use.
package client
