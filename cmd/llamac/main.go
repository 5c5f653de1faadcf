// Command llamac is the front-end CLI: scan, lex, parse and
// type-check a Llama source file, or drop into an interactive REPL.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/llamalang/llamac/internal/ast"
	"github.com/llamalang/llamac/internal/diagnostic"
	"github.com/llamalang/llamac/internal/pipeline"
	"github.com/llamalang/llamac/internal/repl"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

// config is the optional llama.yaml file listing extra #include search
// directories. It is currently advisory: the scanner resolves a
// relative #include path against the including file's directory only;
// IncludePaths is surfaced for future lookup extension and echoed by
// --debug-print=config.
type config struct {
	IncludePaths []string `yaml:"include_paths"`
}

func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &config{}, nil
	}
	if err != nil {
		return nil, err
	}
	var c config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func main() {
	var (
		stopAfter   = flag.String("stop-after", "sema", "stop after: scan, lex, parse, sema")
		configPath  = flag.String("config", "llama.yaml", "path to an optional include-path config file")
		debugPrint  = flag.String("debug-print", "", "debug-print target: tokens, ast, types, config, or empty")
		versionFlag = flag.Bool("version", false, "print version information")
	)
	flag.Parse()

	if *versionFlag {
		fmt.Println(bold("llamac"), "dev")
		return
	}

	if flag.NArg() == 0 {
		printUsage()
		return
	}

	switch cmd := flag.Arg(0); cmd {
	case "repl":
		repl.New().Start(os.Stdout)
	case "check":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("error"))
			os.Exit(1)
		}
		runCheck(flag.Arg(1), *stopAfter, *configPath, *debugPrint)
	default:
		// Bare invocation: `llamac <file>` is shorthand for `llamac check <file>`.
		runCheck(cmd, *stopAfter, *configPath, *debugPrint)
	}
}

func printUsage() {
	fmt.Println(bold("llamac") + " - Llama front-end compiler")
	fmt.Println()
	fmt.Println("usage:")
	fmt.Println("  llamac [--stop-after=scan|lex|parse|sema] [--debug-print=tokens|ast|types|config] check <file>")
	fmt.Println("  llamac repl")
}

func runCheck(path, stopAfterFlag, configPath, debugPrint string) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("error"), err)
		os.Exit(1)
	}
	if debugPrint == "config" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(cfg)
	}

	stage, err := pipeline.ParseStage(stopAfterFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("error"), err)
		os.Exit(1)
	}

	result, err := pipeline.Run(path, stage)
	if err != nil {
		diagnostic.Print(os.Stderr, err)
		os.Exit(1)
	}

	switch debugPrint {
	case "tokens":
		for _, t := range result.Tokens {
			fmt.Println(t.String())
		}
	case "ast":
		if result.Program != nil {
			fmt.Printf("%d top-level definitions\n", len(result.Program.Definitions))
		}
	case "types":
		printTypes(result)
	}

	if result.Sema != nil {
		fmt.Println(green("ok"))
	}
}

func printTypes(result *pipeline.Result) {
	if result.Sema == nil || result.Program == nil {
		return
	}
	for _, def := range result.Program.Definitions {
		printDefTypes(result, def)
	}
}

func printDefTypes(result *pipeline.Result, def ast.Definition) {
	switch d := def.(type) {
	case *ast.LetDef:
		for _, one := range d.Defs {
			ty, ok := result.Sema.ResolvedType(one)
			if !ok {
				continue
			}
			fmt.Printf("%s : %s\n", one.ID, ty.String())
		}
	case *ast.TypeDef:
		for _, tdef := range d.TDefs {
			fmt.Printf("%s : type\n", tdef.ID)
		}
	}
}
