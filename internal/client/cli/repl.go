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
	Signup(ctx context.Context) error
	Signin(ctx context.Context) error
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
	ShowUser(ctx context.Context, args []string) error
	Tweet(ctx context.Context) error
	ShowTweet(ctx context.Context, args []string) error
	EditTweet(ctx context.Context, args []string) error
	DeleteTweet(ctx context.Context, args []string) error
	Ping(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the tweeter CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on 'a'. The loop exits on EOF, on "exit"/"quit", or
// when ctx is done.
//
//	Always:
//	  - help               show available commands
//	  - user [id]          show a user profile
//	  - ping               check the server
//	  - exit | quit        leave the program
//
//	Not logged in:
//	  - signup             create an account
//	  - signin             authenticate
//
//	Logged in:
//	  - tweet              post a tweet
//	  - show <id>          show a tweet
//	  - edit <id>          change a tweet's text
//	  - delete <id>        delete a tweet
//	  - refresh            rotate the token pair
//	  - logout             end the session
//
// Handlers report their own errors, so the loop ignores them.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("tweeter %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: tweet, show, edit, delete, user, refresh, logout, ping, exit")
			} else {
				printlnFn("Available commands: signup, signin, user, ping, exit")
			}

		case "signup":
			_ = a.Signup(ctx)

		case "signin", "login":
			_ = a.Signin(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "user":
			_ = a.ShowUser(ctx, args)

		case "tweet":
			_ = a.Tweet(ctx)

		case "show":
			_ = a.ShowTweet(ctx, args)

		case "edit":
			_ = a.EditTweet(ctx, args)

		case "delete":
			_ = a.DeleteTweet(ctx, args)

		case "ping":
			_ = a.Ping(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
