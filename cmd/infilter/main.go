package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	apppkg "github.com/kk-code-lab/infilter/internal/app"
	"github.com/kk-code-lab/infilter/internal/config"
	"github.com/kk-code-lab/infilter/internal/filters"
)

func printHelp() {
	fmt.Print(`infilter - Filtered input fields in the terminal

USAGE:
    infilter [OPTIONS]

OPTIONS:
    -h, --help                Show this help message and exit
    -c, --config FILE         Read fields from FILE instead of the default config
        --list-filters        Print the available filter names and exit
        --write-config FILE   Write the built-in field gallery to FILE and exit

ENVIRONMENT:
    INFILTER_CONFIG           Default config file location
    INFILTER_DEBUG            Set to 1 to trace field events
    INFILTER_DEBUG_FILE       Trace log file (default infilter-debug.log)
`)
}

// optionValue returns the value of an option given either as "--opt VALUE"
// or "--opt=VALUE", advancing i past a separate value.
func optionValue(args []string, i *int, name string) (string, bool) {
	arg := args[*i]
	if strings.HasPrefix(arg, name+"=") {
		return strings.TrimPrefix(arg, name+"="), true
	}
	if *i+1 >= len(args) {
		return "", false
	}
	*i++
	return args[*i], true
}

func main() {
	// Set UTF-8 as fallback encoding for maximum compatibility
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	configPath := ""
	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-h" || arg == "--help":
			printHelp()
			os.Exit(0)
		case arg == "--list-filters":
			for _, name := range filters.Names() {
				fmt.Println(name)
			}
			os.Exit(0)
		case arg == "--write-config" || strings.HasPrefix(arg, "--write-config="):
			path, ok := optionValue(args, &i, "--write-config")
			if !ok || path == "" {
				fmt.Fprintln(os.Stderr, "Error: --write-config needs a file argument")
				os.Exit(2)
			}
			if err := config.Save(config.DefaultConfig(), path); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			os.Exit(0)
		case arg == "-c" || arg == "--config" || strings.HasPrefix(arg, "--config="):
			name := "--config"
			if arg == "-c" {
				name = "-c"
			}
			path, ok := optionValue(args, &i, name)
			if !ok || path == "" {
				fmt.Fprintf(os.Stderr, "Error: %s needs a file argument\n", name)
				os.Exit(2)
			}
			configPath = path
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown option %q\n", arg)
			os.Exit(2)
		}
	}
	if configPath == "" {
		configPath = config.ConfigPath()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// A missing file means the built-in gallery: nothing to show or watch.
	sourcePath := ""
	if _, err := os.Stat(configPath); err == nil {
		sourcePath = configPath
	}

	app, err := apppkg.NewApplication(apppkg.Options{
		Config:     cfg,
		ConfigPath: sourcePath,
		Watch:      sourcePath != "",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing application: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = app.Close()
	}()

	app.Run()
}
