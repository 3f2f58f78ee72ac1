package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/term"

	"rollbook/internal/app"
	"rollbook/internal/export"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	svc *app.Services
	out io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  codes list                      - list university codes")
	fmt.Fprintln(cli.out, "  codes add -code CODE            - add a university code")
	fmt.Fprintln(cli.out, "  codes remove -code CODE         - remove a university code")
	fmt.Fprintln(cli.out, "  signup -username NAME -code CODE - create an account; the password is prompted")
	fmt.Fprintln(cli.out, "  export -out FILE                - write all attendance to FILE (.csv or .xlsx)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	switch args[1] {
	case "codes":
		return cli.codes(ctx, args[2:])
	case "signup":
		return cli.signup(ctx, args[2:])
	case "export":
		return cli.export(ctx, args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) codes(ctx context.Context, args []string) error {
	if len(args) == 0 {
		cli.printUsage()
		return errHelp
	}
	fs := flag.NewFlagSet("codes "+args[0], flag.ContinueOnError)
	fs.SetOutput(cli.out)
	code := fs.String("code", "", "The university code.")

	switch args[0] {
	case "list":
		codes, err := cli.svc.Codes.List(ctx)
		if err != nil {
			return err
		}
		for _, c := range codes {
			fmt.Fprintln(cli.out, c)
		}
		return nil
	case "add", "remove":
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *code == "" {
			fs.Usage()
			return errHelp
		}
		if args[0] == "add" {
			if err := cli.svc.Codes.Add(ctx, *code); err != nil {
				return err
			}
			fmt.Fprintf(cli.out, "added %s\n", *code)
			return nil
		}
		if err := cli.svc.Codes.Remove(ctx, *code); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "removed %s\n", *code)
		return nil
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) signup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	fs.SetOutput(cli.out)
	username := fs.String("username", "", "The new username. The password will be prompted next.")
	code := fs.String("code", "", "A valid university code.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *code == "" {
		fs.Usage()
		return errHelp
	}

	pwd, err := cli.prompt("Enter password:")
	if err != nil {
		return err
	}
	if pwd == "" {
		fs.Usage()
		return errHelp
	}
	confirm, err := cli.prompt("Confirm password:")
	if err != nil {
		return err
	}
	if err := cli.svc.Accounts.Register(ctx, *username, pwd, confirm, *code); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "created %s\n", *username)
	return nil
}

func (cli *commandLine) prompt(label string) (string, error) {
	fmt.Fprint(cli.out, label)
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	return string(pwd), err
}

func (cli *commandLine) export(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(cli.out)
	out := fs.String("out", export.MonthlyFile, "Destination file; .xlsx writes a workbook, anything else CSV.")
	if err := fs.Parse(args); err != nil {
		return err
	}

	records, err := cli.svc.Attendance.Records(ctx)
	if err != nil {
		return err
	}
	if !strings.EqualFold(filepath.Ext(*out), ".xlsx") {
		n, err := export.WriteFile(*out, records)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "wrote %d records to %s\n", n, *out)
		return nil
	}

	wb, err := export.NewWorkbook(records)
	if err != nil {
		return err
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	if _, err := wb.WriteTo(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "wrote %d records to %s\n", wb.Rows, *out)
	return nil
}
