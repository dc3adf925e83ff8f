//go:build linux

package main

import (
	// The x11 backend registers itself on platforms that can carry it.
	_ "github.com/1broseidon/casement/backend/x11"
)
