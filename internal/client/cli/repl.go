package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Dashboard(ctx context.Context) error
	Datasets(ctx context.Context) error
	ShowDataset(ctx context.Context) error
	Upload(ctx context.Context) error
	EditDataset(ctx context.Context) error
	DeleteDataset(ctx context.Context) error
	Visualizations(ctx context.Context) error
	ShowVisualization(ctx context.Context) error
	AddVisualization(ctx context.Context) error
	EditVisualization(ctx context.Context) error
	DeleteVisualization(ctx context.Context) error
	Analytics(ctx context.Context) error
	ExportAnalytics(ctx context.Context) error
	Queries(ctx context.Context) error
	SaveQuery(ctx context.Context) error
	RunQuery(ctx context.Context) error
	Profile(ctx context.Context) error
	Passwd(ctx context.Context) error
	DevBypass(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the vizlab CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - devbypass      — toggle the development auth bypass
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - whoami         — show the signed-in account
//	  - dashboard      — totals and recent items across resources
//	  - datasets       — list datasets (with optional search)
//	  - dataset        — show a single dataset (interactive ID prompt)
//	  - upload         — upload a data file as a new dataset
//	  - editds         — edit dataset fields
//	  - rmds           — delete a dataset
//	  - viz            — list visualizations
//	  - vizshow        — show a single visualization
//	  - addviz         — create a visualization
//	  - editviz        — edit a visualization
//	  - rmviz          — delete a visualization
//	  - analytics      — show the analytics snapshot for a time range
//	  - export         — export analytics as CSV
//	  - queries        — list saved queries
//	  - savequery      — save a query
//	  - query          — run an ad hoc query on a dataset
//	  - profile        — view or update profile fields
//	  - passwd         — change the account password
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// openCommands are usable without a session; everything else requires a
// login and is steered to the login entry point instead of surfacing a
// backend 401.
var openCommands = map[string]struct{}{
	"help":      {},
	"register":  {},
	"login":     {},
	"devbypass": {},
	"exit":      {},
	"quit":      {},
}

// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("vizlab %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		if _, open := openCommands[cmd]; !open && !a.isLoggedIn() {
			printlnFn("Please login first (type 'login')")
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, dashboard, datasets, dataset, upload, editds, rmds,")
				printlnFn("  viz, vizshow, addviz, editviz, rmviz, analytics, export, queries, savequery, query,")
				printlnFn("  profile, passwd, logout, exit")
			} else {
				printlnFn("Available commands: register, login, devbypass, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "dashboard":
			_ = a.Dashboard(ctx)

		case "datasets":
			_ = a.Datasets(ctx)

		case "dataset":
			_ = a.ShowDataset(ctx)

		case "upload":
			_ = a.Upload(ctx)

		case "editds":
			_ = a.EditDataset(ctx)

		case "rmds":
			_ = a.DeleteDataset(ctx)

		case "viz", "visualizations":
			_ = a.Visualizations(ctx)

		case "vizshow":
			_ = a.ShowVisualization(ctx)

		case "addviz":
			_ = a.AddVisualization(ctx)

		case "editviz":
			_ = a.EditVisualization(ctx)

		case "rmviz":
			_ = a.DeleteVisualization(ctx)

		case "analytics":
			_ = a.Analytics(ctx)

		case "export":
			_ = a.ExportAnalytics(ctx)

		case "queries":
			_ = a.Queries(ctx)

		case "savequery":
			_ = a.SaveQuery(ctx)

		case "query":
			_ = a.RunQuery(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "passwd":
			_ = a.Passwd(ctx)

		case "devbypass":
			_ = a.DevBypass(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
