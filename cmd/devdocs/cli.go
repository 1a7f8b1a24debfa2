package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/devdocs"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Types   []devdocs.DocType
	Verbose bool
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `type:"path" env:"DEVDOCS_CONFIG" help:"YAML file with additional document types"`
	Verbose bool   `short:"v" help:"Log every fetch, filter and stored page"`

	List   ListCmd   `cmd:"" help:"List available document types"`
	Scrape ScrapeCmd `cmd:"" help:"Scrape documents into a store"`
	Page   PageCmd   `cmd:"" help:"Fetch and filter a single page"`
	Stored StoredCmd `cmd:"" help:"List documents, pages or entries in the sqlite store"`
	Delete DeleteCmd `cmd:"" help:"Delete a document from the sqlite store"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	Targets     []string      `arg:"" name:"target" help:"Document types to scrape, as TYPE or TYPE@VERSION"`
	Store       string        `enum:"fs,sqlite" default:"fs" help:"Store to write into (fs or sqlite)"`
	Output      string        `type:"path" default:"docs" env:"DEVDOCS_OUTPUT" help:"Output directory of the fs store"`
	DB          string        `name:"db" type:"path" default:"devdocs.db" env:"DEVDOCS_DB" help:"Database file of the sqlite store"`
	Timeout     time.Duration `default:"10s" help:"Timeout of each fetch"`
	Rate        float64       `default:"1" help:"Requests per second per host (0 disables limiting)"`
	Concurrency int           `short:"c" default:"2" help:"Documents scraped at once"`
	MaxPages    int           `default:"0" help:"Maximum pages per document (0 means no limit)"`
	Robots      bool          `default:"true" negatable:"" help:"Honor robots.txt"`
}

// PageCmd is the "page" subcommand.
type PageCmd struct {
	Target  string        `arg:"" name:"target" help:"Document type, as TYPE or TYPE@VERSION"`
	Path    string        `arg:"" optional:"" help:"Page path, empty for the root page"`
	Text    bool          `help:"Print the page text instead of its content"`
	Timeout time.Duration `default:"10s" help:"Timeout of the fetch"`
	Robots  bool          `default:"true" negatable:"" help:"Honor robots.txt"`
	Stored  bool          `help:"Read the page from the sqlite store instead of fetching it"`
	DB      string        `name:"db" type:"path" default:"devdocs.db" env:"DEVDOCS_DB" help:"Database file of the sqlite store"`
}

// StoredCmd is the "stored" subcommand.
type StoredCmd struct {
	Target  string `arg:"" optional:"" name:"target" help:"Document to list pages of, as TYPE or TYPE@VERSION"`
	Entries bool   `help:"List the index entries of the target instead of its pages"`
	DB      string `name:"db" type:"path" default:"devdocs.db" env:"DEVDOCS_DB" help:"Database file of the sqlite store"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	Target string `arg:"" name:"target" help:"Document to delete, as TYPE or TYPE@VERSION"`
	Force  bool   `help:"Confirm deletion"`
	DB     string `name:"db" type:"path" default:"devdocs.db" env:"DEVDOCS_DB" help:"Database file of the sqlite store"`
}
