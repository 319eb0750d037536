package main

import (
	"fmt"
	"strconv"
)

func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse position %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("position must be non-negative, got %d", n)
	}
	return n, nil
}
