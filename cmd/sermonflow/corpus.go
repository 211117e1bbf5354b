package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/FocuswithJustin/SermonFlow/core/canon"
	"github.com/FocuswithJustin/SermonFlow/core/digest"
	"github.com/FocuswithJustin/SermonFlow/core/scripture"
	"github.com/FocuswithJustin/SermonFlow/core/sqlite"
	"github.com/FocuswithJustin/SermonFlow/internal/corpus"
)

// CorpusInfoCmd describes the configured corpus.
type CorpusInfoCmd struct {
	JSON bool `name:"json" help:"Print as JSON"`
}

type corpusReport struct {
	*corpus.Info
	SQLite *sqlite.Info `json:"sqlite,omitempty"`
}

func (c *CorpusInfoCmd) Run(env *Env) error {
	_, info, err := env.Open()
	if err != nil {
		return err
	}

	report := corpusReport{Info: info}
	if info.Format == corpus.FormatSQLite {
		driver := sqlite.GetInfo()
		report.SQLite = &driver
	}

	if c.JSON {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	tw := tabwriter.NewWriter(env.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Path:\t%s\n", info.Path)
	fmt.Fprintf(tw, "Format:\t%s\n", info.Format)
	fmt.Fprintf(tw, "Compression:\t%s\n", info.Compression)
	if info.Member != "" {
		fmt.Fprintf(tw, "Member:\t%s\n", info.Member)
	}
	fmt.Fprintf(tw, "Size:\t%s\n", humanize.IBytes(uint64(info.Size)))
	fmt.Fprintf(tw, "SHA-256:\t%s\n", info.Digest.SHA256)
	fmt.Fprintf(tw, "BLAKE3:\t%s\n", info.Digest.BLAKE3)
	fmt.Fprintf(tw, "Verses:\t%s\n", humanize.Comma(int64(info.Verses)))
	fmt.Fprintf(tw, "Books:\t%d\n", info.Books)
	fmt.Fprintf(tw, "Skipped:\t%d\n", info.Skipped)
	if len(info.Translations) > 0 {
		fmt.Fprintf(tw, "Translations:\t%s\n", strings.Join(info.Translations, ", "))
	}
	if report.SQLite != nil {
		fmt.Fprintf(tw, "SQLite driver:\t%s (%s)\n", report.SQLite.Package, report.SQLite.DriverType)
	}
	fmt.Fprintf(tw, "Load time:\t%s\n", info.Duration.Round(time.Microsecond))
	return tw.Flush()
}

var errDigestMismatch = errors.New("corpus digest does not match --digest")

// CorpusCheckCmd resolves every verse of the corpus through its own reference.
type CorpusCheckCmd struct {
	MaxErrors int    `name:"max-errors" help:"Failures to print before summarising" default:"20"`
	Digest    string `name:"digest" help:"Expected SHA-256 or BLAKE3 hex digest of the corpus payload"`
}

// checkResult summarises a round-trip check.
type checkResult struct {
	Checked  int
	Failures []string
	NonCanon []string
}

// roundTrip verifies that every entry of idx resolves to its own text and
// lists book names that are neither canonical English names nor OSIS IDs.
func roundTrip(idx *scripture.Index) checkResult {
	engine := scripture.NewEngine(idx)
	var res checkResult
	for _, v := range idx.Entries() {
		res.Checked++
		ref := v.Reference.String()
		text, ok := engine.Resolve(ref)
		switch {
		case !ok:
			res.Failures = append(res.Failures, ref+": not found")
		case text != v.Text:
			res.Failures = append(res.Failures, ref+": resolves to different text")
		}
	}
	for _, book := range idx.Books() {
		if _, ok := canon.ByName(book); ok {
			continue
		}
		if _, ok := canon.ByOSIS(book); ok {
			continue
		}
		res.NonCanon = append(res.NonCanon, book)
	}
	return res
}

func (c *CorpusCheckCmd) Run(env *Env) error {
	want := strings.ToLower(strings.TrimSpace(c.Digest))
	if want != "" && !digest.Valid(want) {
		return fmt.Errorf("invalid --digest %q: want 64 hex characters", c.Digest)
	}

	idx, info, err := env.Open()
	if err != nil {
		return err
	}
	if want != "" && want != info.Digest.SHA256 && want != info.Digest.BLAKE3 {
		fmt.Fprintf(env.Stdout, "Digest mismatch: corpus is sha256 %s, blake3 %s\n", info.Digest.SHA256, info.Digest.BLAKE3)
		return errDigestMismatch
	}

	res := roundTrip(idx)
	for i, f := range res.Failures {
		if c.MaxErrors > 0 && i >= c.MaxErrors {
			fmt.Fprintf(env.Stdout, "... %d more\n", len(res.Failures)-i)
			break
		}
		fmt.Fprintf(env.Stdout, "FAIL %s\n", f)
	}
	if len(res.NonCanon) > 0 {
		fmt.Fprintf(env.Stdout, "Books outside the 66-book canon: %s\n", strings.Join(res.NonCanon, ", "))
	}
	if info.Skipped > 0 {
		fmt.Fprintf(env.Stdout, "Skipped %d malformed records while loading\n", info.Skipped)
	}
	fmt.Fprintf(env.Stdout, "Checked %s verses, %d failed\n", humanize.Comma(int64(res.Checked)), len(res.Failures))

	if len(res.Failures) > 0 {
		return fmt.Errorf("round-trip check failed for %d verses", len(res.Failures))
	}
	return nil
}
