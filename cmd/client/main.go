package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/atinyakov/FlashCards/internal/client"
)

var (
	version   string
	buildDate string
)

const helpText = `Available commands:
  login                 log in with the admin key
  logout                drop the session
  me                    show whether the session is an admin session
  topics                list topics
  add-topic <name>      create a topic
  cards <topic>         list the cards of a topic
  add-card <topic>      add a card (asks for question and answer)
  study <topic>         quiz yourself on a topic
  help, exit`

// shell holds the REPL state.
type shell struct {
	api     *client.Client
	session *client.SessionFile
	server  string
	prompt  *client.Prompter
	out     io.Writer
}

// repl runs the interactive shell loop until exit or end of input.
func (s *shell) repl() {
	for {
		line, ok := s.prompt.Ask("flashcards> ")
		if !ok {
			return
		}
		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
		arg = strings.TrimSpace(arg)
		if cmd == "" {
			continue
		}
		if cmd == "exit" {
			fmt.Fprintln(s.out, "Bye")
			return
		}
		if err := s.run(cmd, arg); err != nil {
			fmt.Fprintln(s.out, "error:", err)
		}
	}
}

func (s *shell) run(cmd, arg string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	needArg := func(usage string) error {
		if arg == "" {
			return errors.New("usage: " + usage)
		}
		return nil
	}

	switch cmd {
	case "help":
		fmt.Fprintln(s.out, helpText)
	case "login":
		key, ok := s.prompt.Ask("Key: ")
		if !ok {
			return io.EOF
		}
		if err := s.api.Login(ctx, key); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Logged in")
		return s.session.Save(s.server, s.api.Token())
	case "logout":
		if err := s.api.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Logged out")
		return s.session.Save(s.server, "")
	case "me":
		admin, err := s.api.Me(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "admin: %v\n", admin)
	case "topics":
		topics, err := s.api.Topics(ctx)
		if err != nil {
			return err
		}
		if len(topics) == 0 {
			fmt.Fprintln(s.out, "No topics yet")
		}
		for _, t := range topics {
			fmt.Fprintf(s.out, "%-24s %s\n", t.ID, t.Name)
		}
	case "add-topic":
		if err := needArg("add-topic <name>"); err != nil {
			return err
		}
		t, err := s.api.AddTopic(ctx, arg)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Created topic %q (%s)\n", t.Name, t.ID)
	case "cards":
		if err := needArg("cards <topic>"); err != nil {
			return err
		}
		cards, err := s.api.Cards(ctx, arg)
		if err != nil {
			return err
		}
		if len(cards) == 0 {
			fmt.Fprintln(s.out, "No cards")
		}
		for _, c := range cards {
			fmt.Fprintf(s.out, "Q: %s\nA: %s\n---\n", c.Question, c.Answer)
		}
	case "add-card":
		if err := needArg("add-card <topic>"); err != nil {
			return err
		}
		q, a, ok := s.prompt.PromptCard()
		if !ok {
			return io.EOF
		}
		c, err := s.api.AddCard(ctx, arg, q, a)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Card saved (%s)\n", c.ID)
	case "study":
		if err := needArg("study <topic>"); err != nil {
			return err
		}
		cards, err := s.api.Cards(ctx, arg)
		if err != nil {
			return err
		}
		if len(cards) == 0 {
			fmt.Fprintln(s.out, "No cards to study")
			return nil
		}
		s.prompt.Study(cards, nil)
	default:
		fmt.Fprintln(s.out, "Unknown command. Type 'help' for a list of commands.")
	}
	return nil
}

// main parses command-line flags and starts the shell.
func main() {
	var (
		baseURL     string
		caFile      string
		sessionPath string
		showVer     bool
	)

	flag.StringVar(&baseURL, "url", "http://localhost:8000", "server base URL")
	flag.StringVar(&caFile, "ca", "", "path to CA cert for a self-signed server")
	flag.StringVar(&sessionPath, "session", client.DefaultSessionPath(), "where to keep the session token")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("FlashCards Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	api, err := client.New(baseURL, caFile)
	if err != nil {
		log.Fatal(err)
	}
	sess := client.NewSessionFile(sessionPath)
	if err := sess.Load(); err != nil {
		log.Printf("ignoring saved session: %v", err)
	}
	if token := sess.TokenFor(baseURL); token != "" {
		api.SetToken(token)
	}

	s := &shell{
		api:     api,
		session: sess,
		server:  baseURL,
		prompt:  client.NewPrompter(os.Stdin, os.Stdout),
		out:     os.Stdout,
	}
	s.repl()
}
