package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// Output writes command results to the command's stdout and stderr
type Output struct {
	out io.Writer
	err io.Writer
}

func NewOutput(cmd *cobra.Command) *Output {
	return &Output{out: cmd.OutOrStdout(), err: cmd.ErrOrStderr()}
}

func (o *Output) Printf(format string, args ...any) {
	fmt.Fprintf(o.out, format, args...)
}

func (o *Output) Println(args ...any) {
	fmt.Fprintln(o.out, args...)
}

func (o *Output) Error(format string, args ...any) {
	fmt.Fprintf(o.err, "error: "+format+"\n", args...)
}

func (o *Output) Warning(format string, args ...any) {
	fmt.Fprintf(o.err, "warning: "+format+"\n", args...)
}

func (o *Output) JSON(v any) error {
	enc := json.NewEncoder(o.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Field prints one aligned "label: value" row
func (o *Output) Field(label, value string) {
	o.Printf("  %-22s %s\n", label+":", value)
}

func (o *Output) Heading(title string) {
	o.Println(title)
	o.Println(strings.Repeat("-", len(title)))
}

func num(v null.Float, places int32) string {
	if !v.Valid {
		return "N/A"
	}
	return decimal.NewFromFloat(v.Float64).StringFixed(places)
}

func pct(v null.Float) string {
	if !v.Valid {
		return "N/A"
	}
	return decimal.NewFromFloat(v.Float64).StringFixed(2) + "%"
}

func integer(v null.Int) string {
	if !v.Valid {
		return "N/A"
	}
	return decimal.NewFromInt(v.Int64).String()
}

func str(v null.String) string {
	if !v.Valid || v.String == "" {
		return "N/A"
	}
	return v.String
}
