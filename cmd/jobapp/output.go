package main

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"jobapp/internal/services/health"
	"jobapp/internal/shared/apperr"
)

var (
	okMark   = color.New(color.FgGreen).SprintFunc()
	warnMark = color.New(color.FgYellow).SprintFunc()
	failMark = color.New(color.FgRed, color.Bold).SprintFunc()
	dim      = color.New(color.Faint).SprintFunc()
)

// printError writes the failure and, for typed failures, its hints.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", failMark("Error:"), err)
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		return
	}
	fmt.Fprintln(w, "Troubleshooting:")
	for _, hint := range apperr.Hints(appErr.Kind) {
		fmt.Fprintf(w, "  - %s\n", hint)
	}
}

func printReport(w io.Writer, report health.Report) {
	for _, check := range report.Checks {
		mark := okMark("ok")
		switch {
		case !check.OK && check.Required:
			mark = failMark("FAIL")
		case !check.OK:
			mark = warnMark("warn")
		}
		fmt.Fprintf(w, "[%s] %-10s %s\n", mark, check.Name, check.Detail)
		if !check.OK {
			for _, hint := range check.Hints {
				fmt.Fprintf(w, "       %s\n", dim(hint))
			}
		}
	}
	for _, warning := range report.Warnings {
		fmt.Fprintf(w, "%s %s\n", warnMark("profile:"), warning)
	}
}

func printArtifacts(w io.Writer, artifacts map[string]string) {
	keys := make([]string, 0, len(artifacts))
	for k := range artifacts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-18s %s\n", k, artifacts[k])
	}
}
