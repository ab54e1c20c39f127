package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Customers(ctx context.Context) error
	AddCustomer(ctx context.Context) error
	UseCustomer(ctx context.Context, args []string) error
	DeleteCustomer(ctx context.Context, args []string) error

	New(ctx context.Context) error
	Show(ctx context.Context) error
	Set(ctx context.Context, args []string) error
	AddItem(ctx context.Context) error
	SetItem(ctx context.Context, args []string) error
	RemoveItem(ctx context.Context, args []string) error
	Validate(ctx context.Context) error
	Export(ctx context.Context) error
	Invoices(ctx context.Context) error

	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Sync(ctx context.Context) error
	Archive(ctx context.Context, args []string) error
}

const helpText = `Customers:  customers, addcustomer, usecustomer <id>, delcustomer <id>
Invoice:    new, show, set <field> [value], additem, setitem <n> <field> <value>,
            rmitem <n>, validate, export, invoices
Archive:    login, logout, sync, archive list [page], archive url <id>
Other:      help, exit
Fields:     client, taxid, email, address, number, date, notes, rate, defaultnotes
Item:       desc, qty, price, tax`

// runREPL reads commands line by line and dispatches them to a. It returns
// on EOF, on ctx cancellation, or when the user types "exit" or "quit".
//
// Handlers report their own failures to the user; their errors are dropped
// here so one failing command never ends the session.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("autobody (%s)> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)
			if !a.isLoggedIn() {
				printlnFn("Not logged in to the archive: 'login' before 'sync'.")
			}

		case "customers":
			_ = a.Customers(ctx)
		case "addcustomer":
			_ = a.AddCustomer(ctx)
		case "usecustomer":
			_ = a.UseCustomer(ctx, args)
		case "delcustomer":
			_ = a.DeleteCustomer(ctx, args)

		case "new":
			_ = a.New(ctx)
		case "show":
			_ = a.Show(ctx)
		case "set":
			_ = a.Set(ctx, args)
		case "additem":
			_ = a.AddItem(ctx)
		case "setitem":
			_ = a.SetItem(ctx, args)
		case "rmitem":
			_ = a.RemoveItem(ctx, args)
		case "validate":
			_ = a.Validate(ctx)
		case "export":
			_ = a.Export(ctx)
		case "invoices":
			_ = a.Invoices(ctx)

		case "login":
			_ = a.Login(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "sync":
			if !a.isLoggedIn() {
				printlnFn("Please login first")
				continue
			}
			_ = a.Sync(ctx)
		case "archive":
			if !a.isLoggedIn() {
				printlnFn("Please login first")
				continue
			}
			_ = a.Archive(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
