// bview is a simple CLI tool for inspecting block files.
//
// Usage:
//
//	bview <filename>                  # header, or a shell on a terminal
//	bview -b 12 <filename>            # hexdump block 12
//	bview -sum <filename>             # xxhash64 of every block
//	bview -export out.zst <filename>  # zstd image of the whole file
//
// Shell commands:
//
//	.header      print the header
//	.block N     hexdump block N
//	.sum         checksum every block
//	.exit        quit
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"github.com/egodb/ego/blockfile"
	"github.com/egodb/ego/internal/log"
)

func main() {
	blockFlag := flag.Int64("b", -1, "hexdump block `N`")
	sumFlag := flag.Bool("sum", false, "print a checksum of every block")
	exportFlag := flag.String("export", "", "write a zstd image of the file to `path`")
	levelFlag := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: bview [-b N | -sum | -export path] <filename>")
		os.Exit(1)
	}

	level, err := log.ParseLevel(*levelFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	filename := flag.Arg(0)
	logger := log.New(log.WithLevel(level)).WithField("file", filename)

	bf, err := blockfile.Open(filename)
	if err != nil {
		logger.Error("open: %v", err)
		os.Exit(1)
	}
	defer bf.Close()

	switch {
	case *blockFlag >= 0:
		err = dumpBlock(os.Stdout, bf, *blockFlag)
	case *sumFlag:
		err = printSums(os.Stdout, bf)
	case *exportFlag != "":
		err = runExport(bf, *exportFlag, logger)
	case term.IsTerminal(int(os.Stdin.Fd())):
		err = runShell(bf, filename)
	default:
		printHeader(os.Stdout, bf)
	}
	if err != nil {
		logger.Error("%v", err)
		bf.Close()
		os.Exit(1)
	}
}

func runExport(bf *blockfile.BlockFile, path string, logger *log.Logger) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	n, err := export(out, bf)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return err
	}
	logger.Info("exported %d blocks to %s", n, path)
	return nil
}

var completer = readline.NewPrefixCompleter(
	readline.PcItem(".header"),
	readline.PcItem(".block"),
	readline.PcItem(".sum"),
	readline.PcItem(".help"),
	readline.PcItem(".exit"),
)

func runShell(bf *blockfile.BlockFile, filename string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          fmt.Sprintf("bview:%s> ", filepath.Base(filename)),
		HistoryFile:     filepath.Join(os.TempDir(), ".bview_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       ".exit",
		AutoComplete:    completer,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	printHeader(rl.Stdout(), bf)
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				return nil
			}
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		if quit := execute(rl.Stdout(), bf, line); quit {
			return nil
		}
	}
}

// execute runs one shell command and reports whether the shell should exit.
func execute(w io.Writer, bf *blockfile.BlockFile, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}

	switch strings.ToLower(parts[0]) {
	case ".exit", ".quit":
		return true
	case ".header":
		printHeader(w, bf)
	case ".block":
		if len(parts) != 2 {
			fmt.Fprintln(w, "usage: .block N")
			return false
		}
		block, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			fmt.Fprintf(w, "bad block index %q\n", parts[1])
			return false
		}
		if err = dumpBlock(w, bf, block); err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
		}
	case ".sum":
		if err := printSums(w, bf); err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
		}
	case ".help":
		fmt.Fprintln(w, ".header | .block N | .sum | .exit")
	default:
		fmt.Fprintf(w, "unknown command %q, try .help\n", parts[0])
	}
	return false
}
