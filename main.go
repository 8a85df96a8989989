package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"k8s.io/klog/v2"

	"document-diff/internal/compare"
	"document-diff/internal/document"
)

type failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func envOrDefaultValue[T any](key string, defaultValue T) T {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	switch any(defaultValue).(type) {
	case string:
		return any(value).(T)
	case int:
		if intValue, err := strconv.Atoi(value); err == nil {
			return any(intValue).(T)
		}
	case int64:
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return any(intValue).(T)
		}
	case uint:
		if uintValue, err := strconv.ParseUint(value, 10, 0); err == nil {
			return any(uint(uintValue)).(T)
		}
	case uint64:
		if uintValue, err := strconv.ParseUint(value, 10, 64); err == nil {
			return any(uintValue).(T)
		}
	case float64:
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return any(floatValue).(T)
		}
	case bool:
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return any(boolValue).(T)
		}
	case time.Duration:
		if durationValue, err := time.ParseDuration(value); err == nil {
			return any(durationValue).(T)
		}
	}

	return defaultValue
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run executes one comparison and emits a single JSON object on stdout:
// the report on success, a failure object otherwise. The returned value is
// the process exit code. Partial output files are left in place on failure.
func run(arguments []string, stdout io.Writer) int {
	_ = godotenv.Load()

	flagSet := flag.NewFlagSet("document-diff", flag.ContinueOnError)

	var dpi int
	var sensitivity int
	var page int
	var mode string
	flagSet.IntVar(&dpi, "dpi", envOrDefaultValue("DPI", 150), "DPI for PDF rendering")
	flagSet.IntVar(&sensitivity, "sensitivity", envOrDefaultValue("SENSITIVITY", 30), "Pixel diff threshold (0-255)")
	flagSet.IntVar(&page, "page", envOrDefaultValue("PAGE", 0), "Page number to compare (0-indexed)")
	flagSet.StringVar(&mode, "mode", envOrDefaultValue("MODE", "overlay"), "Comparison mode (overlay or side-by-side or both)")
	klog.InitFlags(flagSet)
	flagSet.Usage = func() {
		fmt.Fprintf(flagSet.Output(), "Usage: document-diff [flags] <file1> <file2> <output>\n")
		flagSet.PrintDefaults()
	}
	defer klog.Flush()

	if err := flagSet.Parse(arguments); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return fail(stdout, err)
	}

	// Exactly three positionals: trailing arguments are almost always flags
	// placed after the positionals, which stdlib flag would silently drop.
	args := flagSet.Args()
	if len(args) != 3 {
		flagSet.Usage()
		return fail(stdout, fmt.Errorf("expected exactly 3 arguments (file1, file2, output), got %d", len(args)))
	}

	parsedMode, err := compare.ParseMode(mode)
	if err != nil {
		return fail(stdout, err)
	}

	comparer := compare.NewComparer(document.NewLoader(), klog.NewKlogr())
	report, err := comparer.Run(context.Background(), compare.Options{
		File1:       args[0],
		File2:       args[1],
		OutputPath:  args[2],
		DPI:         dpi,
		Sensitivity: sensitivity,
		Page:        page,
		Mode:        parsedMode,
	})
	if err != nil {
		return fail(stdout, err)
	}

	report.Success = true
	if err := json.NewEncoder(stdout).Encode(report); err != nil {
		return fail(stdout, err)
	}
	return 0
}

func fail(stdout io.Writer, err error) int {
	_ = json.NewEncoder(stdout).Encode(failure{
		Success: false,
		Error:   err.Error(),
	})
	return 1
}
