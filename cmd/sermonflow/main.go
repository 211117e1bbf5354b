// Command sermonflow finds scripture citations in sermon notes and resolves
// them against a verse corpus.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	apperrors "github.com/FocuswithJustin/SermonFlow/core/errors"
	"github.com/FocuswithJustin/SermonFlow/core/scripture"
	"github.com/FocuswithJustin/SermonFlow/internal/annotate"
	"github.com/FocuswithJustin/SermonFlow/internal/corpus"
	"github.com/FocuswithJustin/SermonFlow/internal/logging"
	"github.com/FocuswithJustin/SermonFlow/internal/validation"
)

const version = "0.1.0"

// defaultConfigPath is read if present; --config names another file.
const defaultConfigPath = "~/.config/sermonflow/config.json"

// CLI defines the command-line interface for sermonflow.
type CLI struct {
	// Global flags
	CorpusPath string          `name:"corpus" short:"c" help:"Verse corpus: JSON, Zefania XML or SQLite, optionally xz/gzip compressed or tar bundled" env:"SERMONFLOW_CORPUS" type:"path"`
	LogLevel   string          `name:"log-level" help:"Log level (debug, info, warn, error)" default:"warn" env:"SERMONFLOW_LOG_LEVEL"`
	LogFormat  string          `name:"log-format" help:"Log format (json, text)" default:"text" env:"SERMONFLOW_LOG_FORMAT"`
	Config     kong.ConfigFlag `help:"JSON configuration file"`

	Detect   DetectCmd   `cmd:"" help:"List scripture references found in text"`
	Resolve  ResolveCmd  `cmd:"" help:"Print the text of references"`
	Annotate AnnotateCmd `cmd:"" help:"Detect and resolve every reference in one or more notes"`
	Passage  PassageCmd  `cmd:"" help:"Print a passage given as an OSIS reference (e.g. John.3.16-18)"`
	Corpus   CorpusGroup `cmd:"" help:"Corpus inspection"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// CorpusGroup contains corpus inspection commands.
type CorpusGroup struct {
	Info  CorpusInfoCmd  `cmd:"" help:"Describe the configured corpus"`
	Check CorpusCheckCmd `cmd:"" help:"Verify every verse resolves to its own text"`
}

// Env carries process I/O and the lazily opened corpus into command Run methods.
type Env struct {
	Ctx        context.Context
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
	CorpusPath string

	provider *scripture.Provider
}

var errNoCorpus = errors.New("no corpus configured: pass --corpus or set SERMONFLOW_CORPUS")

// Engine opens the corpus on first use.
func (e *Env) Engine() (*scripture.Engine, error) {
	if e.CorpusPath == "" {
		return nil, errNoCorpus
	}
	if e.provider == nil {
		e.provider = scripture.NewProvider(corpus.Opener(e.CorpusPath))
	}
	return e.provider.Engine(e.Ctx)
}

// Open opens the corpus directly, for commands that report on it.
func (e *Env) Open() (*scripture.Index, *corpus.Info, error) {
	if e.CorpusPath == "" {
		return nil, nil, errNoCorpus
	}
	idx, info, err := corpus.Open(e.Ctx, e.CorpusPath)
	return idx, info, apperrors.Wrap(err, "open corpus")
}

// input returns args joined by spaces, or all of stdin when args is empty or "-".
func (e *Env) input(args []string) (string, error) {
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		data, err := validation.ReadLimited(e.Stdin, validation.MaxFileSize)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	return strings.Join(args, " "), nil
}

// DetectCmd prints reference-shaped substrings. It never opens the corpus.
type DetectCmd struct {
	Text   []string `arg:"" optional:"" help:"Text to scan; reads stdin when omitted or -"`
	Unique bool     `short:"u" help:"Print each reference once"`
}

func (c *DetectCmd) Run(env *Env) error {
	text, err := env.input(c.Text)
	if err != nil {
		return err
	}
	refs := scripture.DetectReferences(text)
	if c.Unique {
		refs = scripture.Dedupe(refs)
	}
	for _, ref := range refs {
		fmt.Fprintln(env.Stdout, ref)
	}
	return nil
}

// ResolveCmd prints the verse text for each reference.
type ResolveCmd struct {
	Refs   []string `arg:"" help:"References such as \"John 3:16\""`
	Strict bool     `help:"Exit non-zero if any reference is not found"`
}

func (c *ResolveCmd) Run(env *Env) error {
	engine, err := env.Engine()
	if err != nil {
		return err
	}

	missing := 0
	for _, ref := range c.Refs {
		text, ok := engine.Resolve(ref)
		if !ok {
			missing++
			fmt.Fprintf(env.Stdout, "%s\tnot found\n", ref)
			continue
		}
		fmt.Fprintf(env.Stdout, "%s\t%s\n", ref, text)
	}
	if c.Strict && missing > 0 {
		return fmt.Errorf("%d of %d references not found", missing, len(c.Refs))
	}
	return nil
}

// AnnotateCmd detects and resolves the references of one or more notes.
// All notes share one Annotator, so repeated note text is resolved once.
type AnnotateCmd struct {
	Files []string `arg:"" optional:"" help:"Note files; reads stdin when omitted or -"`
	JSON  bool     `name:"json" help:"Print citations as JSON"`
}

// noteCitations is the JSON shape used when several notes are annotated.
type noteCitations struct {
	File      string               `json:"file"`
	Citations []scripture.Citation `json:"citations"`
}

func (c *AnnotateCmd) Run(env *Env) error {
	notes, err := c.readNotes(env)
	if err != nil {
		return err
	}

	engine, err := env.Engine()
	if err != nil {
		return err
	}
	annotator := annotate.New(engine)

	results := make([]noteCitations, len(notes))
	for i, n := range notes {
		citations := annotator.Annotate(env.Ctx, n.text)
		if citations == nil {
			citations = []scripture.Citation{}
		}
		results[i] = noteCitations{File: n.name, Citations: citations}
	}
	hits, misses := annotator.Stats()
	logging.InfoContext(env.Ctx, "annotate_complete", "notes", len(notes), "cache_hits", hits, "cache_misses", misses)

	if c.JSON {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		if len(results) == 1 {
			return enc.Encode(results[0].Citations)
		}
		return enc.Encode(results)
	}

	w := bufio.NewWriter(env.Stdout)
	for _, r := range results {
		prefix := ""
		if len(results) > 1 {
			prefix = r.File + "\t"
		}
		for _, cit := range r.Citations {
			if cit.Resolved {
				fmt.Fprintf(w, "%s%s\t%s\n", prefix, cit.Reference, cit.Text)
			} else {
				fmt.Fprintf(w, "%s%s\tnot found\n", prefix, cit.Reference)
			}
		}
	}
	return w.Flush()
}

type note struct {
	name string
	text string
}

// readNotes reads every named file, or stdin when no file (or only -) is given.
func (c *AnnotateCmd) readNotes(env *Env) ([]note, error) {
	if len(c.Files) == 0 || (len(c.Files) == 1 && c.Files[0] == "-") {
		text, err := env.input(nil)
		if err != nil {
			return nil, err
		}
		return []note{{name: "-", text: text}}, nil
	}

	notes := make([]note, 0, len(c.Files))
	for _, path := range c.Files {
		data, err := validation.ReadFileLimited(path, validation.MaxFileSize)
		if err != nil {
			return nil, apperrors.Wrapf(err, "read note %s", path)
		}
		notes = append(notes, note{name: path, text: string(data)})
	}
	return notes, nil
}

// PassageCmd prints the verses covered by an OSIS reference.
type PassageCmd struct {
	OSIS string `arg:"" name:"osis" help:"OSIS reference such as John.3.16, Ps.23 or Matt.5.3-12"`
}

func (c *PassageCmd) Run(env *Env) error {
	engine, err := env.Engine()
	if err != nil {
		return err
	}
	verses, err := engine.Passage(c.OSIS)
	if err != nil {
		return apperrors.Wrapf(err, "passage %s", c.OSIS)
	}
	w := bufio.NewWriter(env.Stdout)
	for _, v := range verses {
		fmt.Fprintf(w, "%s\t%s\n", v.Reference, v.Text)
	}
	return w.Flush()
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(env *Env) error {
	fmt.Fprintf(env.Stdout, "sermonflow version %s\n", version)
	return nil
}

// run parses args and executes the selected command.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, exit func(int)) error {
	cli := &CLI{}
	env := &Env{Stdin: stdin, Stdout: stdout, Stderr: stderr}

	parser, err := kong.New(cli,
		kong.Name("sermonflow"),
		kong.Description("SermonFlow - scripture reference detection and lookup"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Configuration(kong.JSON, defaultConfigPath),
		kong.Writers(stdout, stderr),
		kong.Exit(exit),
		kong.Bind(env),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cli.LogLevel)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(cli.LogFormat)
	if err != nil {
		return err
	}
	logging.InitLoggerTo(stderr, level, format)

	env.Ctx = logging.WithRunID(ctx, "")
	env.CorpusPath = cli.CorpusPath
	logging.CommandStart(env.Ctx, kctx.Command(), "corpus", env.CorpusPath)

	if err := kctx.Run(env); err != nil {
		logging.ErrorContext(env.Ctx, "command_failed", "command", kctx.Command(), "error", err)
		return err
	}
	return nil
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Exit); err != nil {
		fmt.Fprintln(os.Stderr, "sermonflow:", err)
		os.Exit(1)
	}
}
