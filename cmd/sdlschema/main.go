package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gqlkit/sdlschema/internal/eventbus"
	"github.com/gqlkit/sdlschema/internal/otel"
	"github.com/gqlkit/sdlschema/language"
	"github.com/gqlkit/sdlschema/resolve"
	"github.com/gqlkit/sdlschema/schema"
)

const rootUsage = `sdlschema — SDL schema compiler & tools

USAGE:
  sdlschema <command> [flags] <file.graphql>...

COMMANDS:
  compile          Merge & validate SDL files and print the compiled schema
  check            Validate SDL files without printing anything
  help             Show help for any command
`

const compileUsage = `compile FLAGS:
  -out <file>              Write compiled SDL to file (default: stdout)
  -otel.endpoint <addr>    OTLP collector endpoint
  -otel.service <name>     OpenTelemetry service name (default: sdlschema)
`

const checkUsage = `check FLAGS:
  -otel.endpoint <addr>    OTLP collector endpoint
  -otel.service <name>     OpenTelemetry service name (default: sdlschema)
  (Exits non-zero on validation errors)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("sdlschema", flag.ContinueOnError)
	global.SetOutput(new(bytes.Buffer)) // silence automatic output
	if err := global.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, rootUsage)
		return err
	}
	remaining := global.Args()
	if len(remaining) == 0 {
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := remaining[0]
	cmdArgs := remaining[1:]
	switch cmd {
	case "compile":
		return cmdCompile(cmdArgs)
	case "check":
		return cmdCheck(cmdArgs)
	case "help":
		return cmdHelp(cmdArgs)
	default:
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		fmt.Print(rootUsage)
		return nil
	}
	switch args[0] {
	case "compile":
		fmt.Print(compileUsage)
	case "check":
		fmt.Print(checkUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

func cmdCompile(args []string) error {
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	out := fs.String("out", "", "")
	otelEndpoint := fs.String("otel.endpoint", "", "")
	otelService := fs.String("otel.service", "sdlschema", "")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, compileUsage)
		return err
	}

	s, shutdown, err := buildFromFiles(fs.Args(), *otelEndpoint, *otelService)
	if err != nil {
		return err
	}
	defer shutdown(context.Background())

	sdl := schema.Render(s)
	if *out == "" {
		fmt.Print(sdl)
		return nil
	}
	return os.WriteFile(*out, []byte(sdl), 0o644)
}

func cmdCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	otelEndpoint := fs.String("otel.endpoint", "", "")
	otelService := fs.String("otel.service", "sdlschema", "")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, checkUsage)
		return err
	}

	_, shutdown, err := buildFromFiles(fs.Args(), *otelEndpoint, *otelService)
	if err != nil {
		return err
	}
	return shutdown(context.Background())
}

func buildFromFiles(files []string, otelEndpoint, otelService string) (*schema.Schema, func(context.Context) error, error) {
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("no SDL files given")
	}
	if otelEndpoint != "" {
		eventbus.Use(eventbus.New())
	}
	shutdown, err := otel.Setup(otelEndpoint, otelService)
	if err != nil {
		return nil, nil, err
	}

	doc, err := language.ParseSchemaFiles(files...)
	if err != nil {
		shutdown(context.Background())
		return nil, nil, err
	}
	s, err := schema.Build(context.Background(), doc, resolve.NewConvention())
	if err != nil {
		shutdown(context.Background())
		return nil, nil, err
	}
	return s, shutdown, nil
}
