package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/kade-robertson/synlex/pkg/grammarcfg"
	"github.com/kade-robertson/synlex/pkg/langs"
	"github.com/kade-robertson/synlex/pkg/tokenizer"
)

const (
	version = "0.1.0"
	usage   = `synlex - a grammar-driven syntax tokenizer

Usage:
  synlex [options]

Options:
  -h, --help            Show this help message
  -v, --version         Show version information
  --lang <id>           Grammar to tokenize against (default: plaintext)
  --input <file>        Input file (defaults to stdin)
  --output <file>       Output file (defaults to stdout)
  --rules <file>        YAML file overriding --lang's rules (optional)
  --list-langs          List the known grammar ids and exit

Examples:
  synlex --lang javascript --input main.js
  echo 'const x = 1; // note' | synlex --lang javascript
  synlex --lang javascript --rules extra-rules.yaml --input main.js

The tokenizer writes a single JSON token tree for the whole input.
`
)

func main() {
	var showHelp, showVersion, listLangs bool
	var lang, inputFile, outputFile, rulesFile string

	flag.BoolVar(&showHelp, "h", false, "Show help")
	flag.BoolVar(&showHelp, "help", false, "Show help")
	flag.BoolVar(&showVersion, "v", false, "Show version")
	flag.BoolVar(&showVersion, "version", false, "Show version")
	flag.BoolVar(&listLangs, "list-langs", false, "List known grammar ids")
	flag.StringVar(&lang, "lang", "plaintext", "Grammar to tokenize against")
	flag.StringVar(&inputFile, "input", "", "Input file (defaults to stdin)")
	flag.StringVar(&outputFile, "output", "", "Output file (defaults to stdout)")
	flag.StringVar(&rulesFile, "rules", "", "YAML file overriding --lang's rules")

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if showVersion {
		fmt.Printf("synlex version %s\n", version)
		os.Exit(0)
	}

	reg, err := langs.BuildRegistry()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building grammar registry: %v\n", err)
		os.Exit(1)
	}

	if listLangs {
		for _, id := range []string{"plaintext", "txt", "javascript", "markup", "typescript"} {
			fmt.Println(id)
		}
		os.Exit(0)
	}

	if len(flag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected positional arguments. Use --input and --output flags instead.\n\n")
		flag.Usage()
		os.Exit(1)
	}

	g, ok := reg.Get(lang)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown grammar %q\n", lang)
		os.Exit(1)
	}

	if rulesFile != "" {
		cfg, err := grammarcfg.LoadFile(rulesFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading rules file %q: %v\n", rulesFile, err)
			os.Exit(1)
		}
		g, err = grammarcfg.ApplyOverrides(reg, lang, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error applying rules file %q: %v\n", rulesFile, err)
			os.Exit(1)
		}
	}

	var input string
	if inputFile == "" {
		input, err = readFromStdin()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading from stdin: %v\n", err)
			os.Exit(1)
		}
	} else {
		input, err = readFromFile(inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading file %q: %v\n", inputFile, err)
			os.Exit(1)
		}
	}

	fragments := tokenizer.Tokenize(input, g)

	var output io.Writer = os.Stdout
	var outputCloser io.Closer
	if outputFile != "" {
		file, err := os.Create(outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file %q: %v\n", outputFile, err)
			os.Exit(1)
		}
		output = file
		outputCloser = file
	}

	jsonBytes, err := json.Marshal(fragments)
	if err != nil {
		fmt.Fprintf(os.Stderr, "JSON encoding error: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintln(output, string(jsonBytes))

	if outputCloser != nil {
		if err := outputCloser.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing output file %q: %v\n", outputFile, err)
			os.Exit(1)
		}
	}
}

func readFromStdin() (string, error) {
	bytes, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func readFromFile(filename string) (string, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
