// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const welcome = `============================================================
    PATENT COPILOT - Patent Search Agent
============================================================

Welcome! I'll help you search for patents similar to your invention.

How to use:
  - Describe your invention in detail
  - Include key technical features and functionality
  - Be specific about what makes it unique

Example: 'A smart water bottle that tracks hydration levels
using sensors and sends reminders to a mobile app'
------------------------------------------------------------
`

// resolveDescription picks the invention description from args, the file
// named by path, or r, in that order.
func resolveDescription(args []string, path string, r io.Reader, w io.Writer) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(strings.Join(args, " ")), nil
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading description file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	if isTerminal(r) {
		fmt.Fprint(w, welcome)
	}
	return readDescription(r, w)
}

// readDescription reads lines until two consecutive blank lines or EOF. An
// empty entry is re-prompted until EOF.
func readDescription(r io.Reader, w io.Writer) (string, error) {
	scanner := bufio.NewScanner(r)
	for {
		fmt.Fprintln(w, "\nPlease describe your invention:")
		fmt.Fprintln(w, "(Press Enter twice when finished)")

		var lines []string
		blank := 0
		eof := true
		for scanner.Scan() {
			line := scanner.Text()
			if strings.TrimSpace(line) == "" {
				blank++
				if blank == 2 {
					eof = false
					break
				}
			} else {
				blank = 0
			}
			lines = append(lines, line)
		}
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("reading description: %w", err)
		}

		description := strings.TrimSpace(strings.Join(lines, "\n"))
		if description != "" || eof {
			return description, nil
		}
		fmt.Fprintln(w, "Please provide a description of your invention.")
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
