package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zephyrtronium/exprcalc"
)

var cli struct {
	In      string `help:"Input file, or - for stdin. Stdin is read when no other input is given." placeholder:"FILE"`
	Lines   bool   `short:"n" help:"Parse separate input lines as separate expressions."`
	JSON    bool   `name:"json" default:"true" negatable:"" help:"Print the display form and JSON tree of each expression."`
	Skip    bool   `default:"true" negatable:"" help:"Omit nodes with no operator from JSON trees."`
	Indent  int    `default:"0" help:"Starting indent level of JSON trees."`
	Bitwise bool   `help:"Parse bitwise operators << >> & | ^. Logical xor must then be written \"xor\"."`
	Depth   int    `default:"${maxdepth}" help:"Maximum parser recursion depth, or 0 for no limit."`

	Demo  bool   `help:"Evaluate the built-in demonstration expressions."`
	Cases string `type:"existingfile" placeholder:"FILE" help:"YAML file of demonstration expressions to evaluate."`

	Gen    int  `default:"0" help:"Evaluate this many randomly generated expressions."`
	Genlen int  `default:"${genlen}" help:"Approximate length limit of generated expressions."`
	Random bool `help:"Generate arbitrary symbol sequences rather than well-formed expressions."`
	Spaces bool `help:"Insert random whitespace into generated expressions."`
	NoLog  bool `name:"nolog" help:"Exclude logical operators from generated expressions."`
	NoRel  bool `name:"norel" help:"Exclude relational operators from generated expressions."`
	NoDiv  bool `name:"nodiv" help:"Exclude division from generated expressions."`

	Interactive bool `short:"i" help:"Start an interactive session."`
	Verbose     bool `short:"v" help:"Log each expression as it is evaluated."`

	Exprs []string `arg:"" optional:"" help:"Expressions to evaluate."`
}

// options controls how each expression is reported.
type options struct {
	json, skip bool
	indent     int
	parse      []exprcalc.ParseOption
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:          os.Stderr,
		PartsExclude: []string{zerolog.TimestampFieldName},
	})
	ctx := kong.Parse(&cli,
		kong.Name("exprcalc"),
		kong.Description("Evaluate integer expressions and print their parse trees."),
		kong.Vars{
			"maxdepth": strconv.Itoa(exprcalc.DefaultMaxDepth),
			"genlen":   strconv.Itoa(exprcalc.DefaultGeneratorLength),
		},
	)
	if cli.Depth < 0 {
		ctx.Fatalf("max depth (%d) must not be negative", cli.Depth)
	}
	if cli.Indent < 0 {
		ctx.Fatalf("indent (%d) must not be negative", cli.Indent)
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cli.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	opts := options{json: cli.JSON, skip: cli.Skip, indent: cli.Indent}
	if cli.Bitwise {
		opts.parse = append(opts.parse, exprcalc.Bitwise())
	}
	opts.parse = append(opts.parse, exprcalc.MaxDepth(cli.Depth))
	opts.parse = []exprcalc.ParseOption{exprcalc.ParsingPreset(opts.parse...)}

	if cli.Interactive {
		os.Exit(runREPL(opts))
	}

	var srcs []string
	if cli.Demo {
		d, err := loadDemo("")
		if err != nil {
			log.Fatal().Err(err).Msg("loading demo set")
		}
		srcs = append(srcs, d...)
	}
	if cli.Cases != "" {
		d, err := loadDemo(cli.Cases)
		if err != nil {
			log.Fatal().Err(err).Str("file", cli.Cases).Msg("loading cases")
		}
		srcs = append(srcs, d...)
	}
	if cli.Gen > 0 {
		g := exprcalc.Generator{
			Length:       cli.Genlen,
			FullyRandom:  cli.Random,
			Spaces:       cli.Spaces,
			NoLogical:    cli.NoLog,
			NoRelational: cli.NoRel,
			NoDivision:   cli.NoDiv,
		}
		srcs = append(srcs, g.GenerateN(cli.Gen)...)
	}
	srcs = append(srcs, cli.Exprs...)

	f, err := infile(cli.In, len(srcs) == 0)
	if err != nil {
		log.Fatal().Err(err).Str("file", cli.In).Msg("opening input")
	}
	if f != nil {
		in, err := readInputs(f, cli.Lines)
		if err != nil {
			log.Fatal().Err(err).Msg("reading input")
		}
		srcs = append(srcs, in...)
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	for _, src := range srcs {
		report(w, src, opts)
	}
}

// report writes the evaluation of one expression, or the error preventing
// it, followed by a blank line.
func report(w io.Writer, src string, opts options) {
	fmt.Fprintln(w, src)
	defer fmt.Fprintln(w)
	a, err := exprcalc.ParseString(src, opts.parse...)
	if err != nil {
		log.Debug().Err(err).Str("src", src).Msg("parse failed")
		fmt.Fprintln(w, err)
		return
	}
	r, err := a.Value()
	if err != nil {
		log.Debug().Err(err).Str("src", src).Msg("evaluation failed")
		fmt.Fprintln(w, err)
		return
	}
	log.Debug().Str("src", src).Stringer("expr", a).Int64("result", r).Msg("evaluated")
	fmt.Fprintln(w, "Result:", r)
	if !opts.json {
		return
	}
	j, err := a.JSON(opts.skip, opts.indent)
	if err != nil {
		// Values are already known to be computable.
		panic(err)
	}
	fmt.Fprintf(w, "%v:\nJSON:\n%s\n", a, j)
}

// readInputs reads expressions from f, either one per line or one for the
// whole input.
func readInputs(f io.Reader, lines bool) ([]string, error) {
	if !lines {
		b, err := io.ReadAll(f)
		if err != nil {
			return nil, err
		}
		return []string{string(b)}, nil
	}
	var r []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		if strings.TrimSpace(s.Text()) == "" {
			continue
		}
		r = append(r, s.Text())
	}
	return r, s.Err()
}

func infile(inname string, std bool) (io.Reader, error) {
	switch {
	case inname != "" && inname != "-":
		return os.Open(inname)
	case inname == "-", std:
		return os.Stdin, nil
	}
	return nil, nil
}
