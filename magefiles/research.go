package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Ingest loads a directory of documents into the SQLite document store.
func Ingest(dir string) error {
	mg.Deps(Build, Init)
	return sh.RunV(binPath(), "documents", "ingest", dir)
}

// Research runs one research query and saves the result under results/.
func Research(query string) error {
	mg.Deps(Build, Init)
	return sh.RunV(binPath(), "run", "--output", "results/latest.yaml", query)
}

func binPath() string {
	return binDir + "/" + binName
}
