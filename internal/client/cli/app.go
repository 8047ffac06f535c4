// Package cli implements the interactive accountd client: a small REPL for
// signing up, logging in, and inspecting the current account.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/dmitrijs2005/accountd/internal/client/api"
	"github.com/dmitrijs2005/accountd/internal/common"
)

type App struct {
	client *api.Client
	email  string
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(serverURL string) *App {
	return &App{
		client: api.NewClient(serverURL),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

func (a *App) Signup(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	name, err := GetSimpleText(a.reader, "Enter display name", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	password, err := GetPassword("Enter password", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	defer common.WipeByteArray(password)

	err = a.client.Signup(ctx, email, string(password), name)
	if errors.Is(err, api.ErrDeclined) {
		log.Printf("Email already registered")
		return
	}
	if err != nil {
		log.Printf("Signup unsuccessfull: %s", err.Error())
		return
	}

	log.Printf("Signup successfull")
}

func (a *App) Login(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	password, err := GetPassword("Enter password", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	defer common.WipeByteArray(password)

	err = a.client.Login(ctx, email, string(password))
	if errors.Is(err, api.ErrDeclined) {
		log.Printf("Invalid credentials")
		return
	}
	if err != nil {
		log.Printf("Login unsuccessfull: %s", err.Error())
		return
	}

	a.email = email
	log.Printf("Login successfull")
}

func (a *App) Me(ctx context.Context) {
	profile, err := a.client.Me(ctx, a.email)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	fmt.Fprintf(a.out, "id:       %s\n", profile.ID)
	fmt.Fprintf(a.out, "email:    %s\n", profile.Email)
	fmt.Fprintf(a.out, "name:     %s\n", profile.Name)
	fmt.Fprintf(a.out, "provider: %s\n", profile.Provider)
	fmt.Fprintf(a.out, "created:  %s\n", profile.CreatedAt)
	fmt.Fprintf(a.out, "updated:  %s\n", profile.UpdatedAt)
}

func (a *App) Logout(ctx context.Context) {
	if err := a.client.Logout(ctx); err != nil {
		log.Printf("error: %v", err)
		return
	}
	a.email = ""
	log.Printf("Logged out")
}

func (a *App) printHelp() {
	if a.client.LoggedIn() {
		fmt.Fprintln(a.out, "commands: me, logout, help, exit")
		return
	}
	fmt.Fprintln(a.out, "commands: signup, login, help, exit")
}

// Run starts a simple read–eval–print loop. The loop exits on EOF or when
// the user types "exit" or "quit".
func (a *App) Run(ctx context.Context) {
	for {
		fmt.Fprint(a.out, "accountd> ")

		line, err := a.reader.ReadString('\n')
		if err != nil {
			return
		}

		switch strings.TrimSpace(line) {
		case "signup":
			a.Signup(ctx)
		case "login":
			a.Login(ctx)
		case "me":
			a.Me(ctx)
		case "logout":
			a.Logout(ctx)
		case "help":
			a.printHelp()
		case "exit", "quit":
			return
		case "":
		default:
			fmt.Fprintln(a.out, "unknown command, type 'help'")
		}
	}
}
