// Package server exposes the matchdeck HTTP API over the store.
package server
