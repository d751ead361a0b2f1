// Command featgen mixes source WAVs into training examples and writes their
// features to msgpack batch files.
//
// Usage:
//
//	featgen --dir data/train --features lmf --batch-size 256 --batches 100 --out batches/
package main

import (
	"os"

	"github.com/veedubyou/separation-be/src/shared/lib/cerr"
	"github.com/veedubyou/separation-be/src/shared/lib/env"
	"github.com/veedubyou/separation-be/src/shared/lib/logging"
	"github.com/veedubyou/separation-be/src/training/featgen/commands"
)

func main() {
	logging.Setup(env.Development)

	if err := commands.NewRootCommand().Execute(); err != nil {
		cerr.Log(err)
		os.Exit(1)
	}
}
