package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"gopkg.in/yaml.v3"

	"github.com/arborian/stratadb/datalog"
	"github.com/arborian/stratadb/datalog/engine"
	"github.com/arborian/stratadb/datalog/observe"
)

func main() {
	var dbPath string
	var interactive bool
	var help bool
	var verbose bool
	var queryStr string
	var configPath string

	flag.StringVar(&dbPath, "db", "", "database path (empty: in-memory)")
	flag.BoolVar(&interactive, "i", false, "interactive mode")
	flag.BoolVar(&help, "h", false, "show help")
	flag.BoolVar(&verbose, "verbose", false, "verbose mode (show evaluation events)")
	flag.StringVar(&queryStr, "query", "", "run a single statement and exit")
	flag.StringVar(&configPath, "config", "", "path to a YAML engine options file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [program_file]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "A stratified Datalog engine.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s facts.dl              # load facts.dl, run its statements, print counts\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -i facts.dl           # interactive mode after loading facts.dl\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -query 'p(X)?' facts.dl\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -verbose -i           # interactive mode with evaluation events\n", os.Args[0])
	}
	flag.Parse()

	if help {
		flag.Usage()
		os.Exit(0)
	}

	opts := engine.DefaultOptions()
	if configPath != "" {
		loaded, err := loadOptions(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		opts = loaded
	}
	if dbPath != "" {
		opts.BadgerPath = dbPath
	}

	db, err := engine.NewDatabase(opts)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if verbose {
		db.Observe = observe.ConsoleHandler()
	}

	if programPath := flag.Arg(0); programPath != "" {
		source, err := os.ReadFile(programPath)
		if err != nil {
			log.Fatalf("failed to read %s: %v", programPath, err)
		}
		loadProgram(db, string(source))
	}

	switch {
	case queryStr != "":
		runStatement(db, queryStr)
	case interactive:
		runInteractive(db)
	default:
		if flag.Arg(0) == "" {
			fmt.Println("No program loaded and no query given; use -query, -i, or pass a program file.")
			flag.Usage()
		}
	}
}

func loadOptions(path string) (engine.Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.Options{}, err
	}
	opts := engine.DefaultOptions()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return engine.Options{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return opts, nil
}

func loadProgram(db *engine.Database, source string) {
	stmts, err := engine.PrepareStatements(source)
	if err != nil {
		log.Fatalf("parse error: %v", err)
	}
	if _, err := db.ExecuteAll(stmts); err != nil {
		log.Fatalf("execution error: %v", err)
	}
	facts, _ := db.Facts()
	fmt.Printf("Loaded program: %s facts, %s rules\n",
		humanize.Comma(int64(len(facts))), humanize.Comma(int64(len(db.Rules()))))
}

func runStatement(db *engine.Database, source string) {
	stmt, err := engine.PrepareStatement(source)
	if err != nil {
		log.Fatalf("parse error: %v", err)
	}
	answers, removed, err := stmt.Execute(db, nil)
	if err != nil {
		log.Fatalf("execution error: %v", err)
	}
	if stmt.Kind == engine.Delete {
		fmt.Printf("removed %s facts\n", humanize.Comma(int64(removed)))
		return
	}
	if stmt.Kind == engine.Query {
		printAnswers(answers)
	}
}

func runInteractive(db *engine.Database) {
	fmt.Println("=== stratadb interactive mode ===")
	fmt.Println("Enter facts (p(a,b).), rules (h(X):-b(X).), queries (p(X)?) or deletes (p(X)~).")
	fmt.Println("Type .exit to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == ".exit" {
			return
		}

		stmt, err := engine.PrepareStatement(line)
		if err != nil {
			fmt.Printf("parse error: %v\n", err)
			continue
		}
		answers, removed, err := stmt.Execute(db, nil)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		switch stmt.Kind {
		case engine.Query:
			printAnswers(answers)
		case engine.Delete:
			fmt.Printf("removed %s facts\n", humanize.Comma(int64(removed)))
		default:
			fmt.Println("ok")
		}
	}
}

func printAnswers(answers []map[datalog.Term]datalog.Term) {
	if len(answers) == 0 {
		fmt.Println("_No answers_")
		return
	}

	var columns []datalog.Term
	seen := make(map[datalog.Term]bool)
	for _, a := range answers {
		for k := range a {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}

	tableString := &strings.Builder{}
	alignment := make([]tw.Align, len(columns))
	for i := range alignment {
		alignment[i] = tw.AlignNone
	}
	table := tablewriter.NewTable(tableString,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment(alignment),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)

	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = string(c)
	}
	table.Header(headers)

	for _, a := range answers {
		row := make([]string, len(columns))
		for i, c := range columns {
			row[i] = string(a[c])
		}
		table.Append(row)
	}
	table.Render()
	fmt.Print(tableString.String())
	fmt.Printf("_%s answers_\n", humanize.Comma(int64(len(answers))))
}
