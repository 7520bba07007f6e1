package main

import (
	"io"
	"os"

	regexhl "github.com/riverfjs/regexhl-go"
)

func countOccurrences(records []regexhl.InputCapture) int {
	n := 0
	for _, r := range records {
		if r.Group == 0 {
			n++
		}
	}
	return n
}

func hasTagged(segs []regexhl.Segment) bool {
	for _, s := range segs {
		if s.Tagged() {
			return true
		}
	}
	return false
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func writeFile(filename string, write func(w io.Writer) error) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
