package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/reoring/dynrec"
	"github.com/reoring/dynrec/codec"
	"github.com/reoring/dynrec/schemafile"
	"github.com/reoring/dynrec/sqlrow"
)

// errLinesFailed is returned by bind when at least one input line failed.
var errLinesFailed = errors.New("some lines failed to bind")

func main() {
	log.SetFlags(0)
	log.SetPrefix("dynrec: ")
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var err error
	switch sub := os.Args[1]; sub {
	case "check":
		err = checkCmd(os.Args[2:], os.Stdout)
	case "bind":
		err = bindCmd(os.Args[2:], os.Stdin, os.Stdout)
	case "query":
		err = queryCmd(context.Background(), os.Args[2:], os.Stdout)
	default:
		usage()
		os.Exit(2)
	}
	if errors.Is(err, errLinesFailed) {
		os.Exit(1)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "dynrec CLI\n\nUsage:\n  dynrec check -schema person.yaml [-schema-json]\n  dynrec bind -schema person.yaml [-in records.jsonl]\n  dynrec query -schema person.yaml -db data.db -sql \"SELECT ...\"")
}

func verboseLogf(verbose bool) func(format string, a ...any) {
	return func(format string, a ...any) {
		if verbose {
			log.Printf(format, a...)
		}
	}
}

func checkCmd(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	var schemaPath string
	var asJSONSchema bool
	fs.StringVar(&schemaPath, "schema", "", "schema document (.yaml, .yml or .json)")
	fs.BoolVar(&asJSONSchema, "schema-json", false, "print the JSON Schema projection instead")
	_ = fs.Parse(args)
	if schemaPath == "" {
		fs.Usage()
		os.Exit(2)
	}

	s, err := schemafile.LoadSchema(schemaPath)
	if err != nil {
		return err
	}
	if asJSONSchema {
		b, err := json.MarshalIndent(s.JSONSchema(), "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "%s\n", b)
		return err
	}
	fmt.Fprintf(out, "%s (%d fields)\n", s.Name(), s.Len())
	for i, f := range s.Fields() {
		fmt.Fprintf(out, "  %d\t%s\n", i, f)
	}
	_, err = fmt.Fprintf(out, "fingerprint %016x\n", s.Fingerprint())
	return err
}

func bindCmd(args []string, stdin io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("bind", flag.ExitOnError)
	var schemaPath, inPath string
	var verbose bool
	fs.StringVar(&schemaPath, "schema", "", "schema document (.yaml, .yml or .json)")
	fs.StringVar(&inPath, "in", "", "JSON lines input (default stdin)")
	fs.BoolVar(&verbose, "v", false, "enable verbose logs")
	_ = fs.Parse(args)
	if schemaPath == "" {
		fs.Usage()
		os.Exit(2)
	}
	logf := verboseLogf(verbose)

	s, err := schemafile.LoadSchema(schemaPath)
	if err != nil {
		return err
	}
	in := stdin
	if inPath != "" {
		f, err := os.Open(inPath)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	w := bufio.NewWriter(out)
	var lineNo, bound, failed int
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		b, err := bindLine(s, []byte(line))
		if err != nil {
			failed++
			if iss, ok := dynrec.ToIssue(err); ok {
				log.Printf("line %d: %s at %s: %s", lineNo, iss.Code, iss.Path, iss.Message)
			} else {
				log.Printf("line %d: %v", lineNo, err)
			}
			continue
		}
		bound++
		if _, err := w.Write(append(b, '\n')); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logf("bind: schema=%s lines=%d bound=%d failed=%d", s.Name(), lineNo, bound, failed)
	if failed > 0 {
		return errLinesFailed
	}
	return nil
}

func bindLine(s *dynrec.Schema, line []byte) ([]byte, error) {
	inst, err := codec.DecodeInstance(s, line)
	if err != nil {
		return nil, err
	}
	return codec.EncodeInstance(inst)
}

func queryCmd(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	var schemaPath, dsn, query string
	var verbose bool
	fs.StringVar(&schemaPath, "schema", "", "schema document (.yaml, .yml or .json)")
	fs.StringVar(&dsn, "db", "", "SQLite database path or DSN")
	fs.StringVar(&query, "sql", "", "query whose columns cover the schema fields")
	fs.BoolVar(&verbose, "v", false, "enable verbose logs")
	_ = fs.Parse(args)
	if schemaPath == "" || dsn == "" || query == "" {
		fs.Usage()
		os.Exit(2)
	}
	logf := verboseLogf(verbose)

	s, err := schemafile.LoadSchema(schemaPath)
	if err != nil {
		return err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open %s: %w", dsn, err)
	}
	defer db.Close()

	insts, err := sqlrow.Query(ctx, db, s, query)
	if err != nil {
		return err
	}
	logf("query: schema=%s rows=%d", s.Name(), len(insts))
	w := bufio.NewWriter(out)
	for _, inst := range insts {
		b, err := codec.EncodeInstance(inst)
		if err != nil {
			return err
		}
		if _, err := w.Write(append(b, '\n')); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
